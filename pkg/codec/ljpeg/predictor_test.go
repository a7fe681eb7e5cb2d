package ljpeg

import "testing"

func TestPredict(t *testing.T) {
	cases := []struct {
		p            int
		ra, rb, rc   int32
		want         int32
	}{
		{1, 10, 20, 30, 10},
		{2, 10, 20, 30, 20},
		{3, 10, 20, 30, 30},
		{4, 10, 20, 30, 0},
		{5, 10, 20, 30, 5},
		{6, 10, 20, 30, 10},
		{7, 10, 21, 30, 15},
	}
	for _, c := range cases {
		if got := predict(c.p, c.ra, c.rb, c.rc); got != c.want {
			t.Errorf("predict(%d, %d, %d, %d) = %d, want %d", c.p, c.ra, c.rb, c.rc, got, c.want)
		}
	}
}

func TestPredictInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid predictor number")
		}
	}()
	predict(8, 0, 0, 0)
}

func TestCategory(t *testing.T) {
	cases := []struct {
		v    int32
		want byte
	}{
		{0, 0},
		{1, 1},
		{-1, 1},
		{2, 2},
		{-3, 2},
		{255, 8},
		{-256, 9},
		{4095, 12},
	}
	for _, c := range cases {
		if got := category(c.v); got != c.want {
			t.Errorf("category(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}
