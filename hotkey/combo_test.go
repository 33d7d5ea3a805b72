package hotkey

import "testing"

const (
	codeCtrl  uint16 = 29
	codeRCtrl uint16 = 3613
	codeSpace uint16 = 57
	codeA     uint16 = 30
)

type keyStep struct {
	down bool
	code uint16
}

func TestComboTracker(t *testing.T) {
	tests := []struct {
		name  string
		steps []keyStep
		want  []Edge
	}{
		{
			name:  "press and release space",
			steps: []keyStep{{true, codeCtrl}, {true, codeSpace}, {false, codeSpace}, {false, codeCtrl}},
			want:  []Edge{Pressed, Released},
		},
		{
			name:  "release ctrl first",
			steps: []keyStep{{true, codeCtrl}, {true, codeSpace}, {false, codeCtrl}, {false, codeSpace}},
			want:  []Edge{Pressed, Released},
		},
		{
			name:  "right ctrl",
			steps: []keyStep{{true, codeRCtrl}, {true, codeSpace}, {false, codeSpace}},
			want:  []Edge{Pressed, Released},
		},
		{
			name:  "space without ctrl",
			steps: []keyStep{{true, codeSpace}, {false, codeSpace}},
			want:  nil,
		},
		{
			name:  "ctrl after space",
			steps: []keyStep{{true, codeSpace}, {true, codeCtrl}, {false, codeSpace}, {false, codeCtrl}},
			want:  nil,
		},
		{
			name:  "auto repeat",
			steps: []keyStep{{true, codeCtrl}, {true, codeSpace}, {true, codeSpace}, {true, codeSpace}, {false, codeSpace}},
			want:  []Edge{Pressed, Pressed, Pressed, Released},
		},
		{
			name:  "both ctrls, one released",
			steps: []keyStep{{true, codeCtrl}, {true, codeRCtrl}, {true, codeSpace}, {false, codeCtrl}, {false, codeSpace}},
			want:  []Edge{Pressed, Released},
		},
		{
			name:  "unrelated key",
			steps: []keyStep{{true, codeCtrl}, {true, codeA}, {false, codeA}, {false, codeCtrl}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newComboTracker([][]uint16{{codeCtrl, codeRCtrl}}, codeSpace)
			var got []Edge
			for _, s := range tt.steps {
				var (
					e  Edge
					ok bool
				)
				if s.down {
					e, ok = tr.keyDown(s.code)
				} else {
					e, ok = tr.keyUp(s.code)
				}
				if ok {
					got = append(got, e)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("edges = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("edge[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
