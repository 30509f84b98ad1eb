package interval

import (
	"reflect"
	"testing"
)

func TestOverlaps(t *testing.T) {
	t.Run("touching endpoints do not overlap", func(t *testing.T) {
		a := Interval{Start: 540, End: 600}
		b := Interval{Start: 600, End: 660}
		if Overlaps(a, b) || Overlaps(b, a) {
			t.Fatalf("expected touching intervals not to overlap")
		}
	})

	t.Run("one shared minute overlaps", func(t *testing.T) {
		a := Interval{Start: 540, End: 601}
		b := Interval{Start: 600, End: 660}
		if !Overlaps(a, b) || !Overlaps(b, a) {
			t.Fatalf("expected intervals sharing a minute to overlap")
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("collapses overlapping and touching intervals", func(t *testing.T) {
		in := []Interval{
			{Start: 600, End: 660},
			{Start: 540, End: 610},
			{Start: 660, End: 700},
			{Start: 800, End: 860},
		}
		want := []Interval{
			{Start: 540, End: 700},
			{Start: 800, End: 860},
		}
		if got := Merge(in); !reflect.DeepEqual(got, want) {
			t.Fatalf("Merge mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("drops empty intervals", func(t *testing.T) {
		in := []Interval{{Start: 100, End: 100}, {Start: 200, End: 150}}
		if got := Merge(in); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestSubtract(t *testing.T) {
	base := Interval{Start: 540, End: 1020} // 09:00-17:00

	t.Run("no exclusions returns the base window", func(t *testing.T) {
		got := Subtract(base, nil)
		if !reflect.DeepEqual(got, []Interval{base}) {
			t.Fatalf("expected base window back, got %v", got)
		}
	})

	t.Run("middle exclusion splits the window", func(t *testing.T) {
		got := Subtract(base, []Interval{{Start: 660, End: 720}})
		want := []Interval{
			{Start: 540, End: 660},
			{Start: 720, End: 1020},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Subtract mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("overlapping exclusions are merged first", func(t *testing.T) {
		got := Subtract(base, []Interval{
			{Start: 600, End: 700},
			{Start: 660, End: 780},
		})
		want := []Interval{
			{Start: 540, End: 600},
			{Start: 780, End: 1020},
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Subtract mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("exclusion reaching outside the window is clipped", func(t *testing.T) {
		got := Subtract(base, []Interval{{Start: 0, End: 600}})
		want := []Interval{{Start: 600, End: 1020}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Subtract mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("exclusion covering the window empties it", func(t *testing.T) {
		if got := Subtract(base, []Interval{{Start: 0, End: 1440}}); len(got) != 0 {
			t.Fatalf("expected no free intervals, got %v", got)
		}
	})

	t.Run("pure for identical inputs", func(t *testing.T) {
		exclusions := []Interval{{Start: 700, End: 730}, {Start: 560, End: 590}}
		first := Subtract(base, exclusions)
		second := Subtract(base, exclusions)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Subtract not deterministic: %v vs %v", first, second)
		}
	})
}

func TestClip(t *testing.T) {
	t.Run("tiles a window by the requested duration", func(t *testing.T) {
		got := Clip([]Interval{{Start: 540, End: 1020}}, 60, 60)
		want := []int{540, 600, 660, 720, 780, 840, 900, 960}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Clip mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("last start still fits the full duration", func(t *testing.T) {
		got := Clip([]Interval{{Start: 540, End: 630}}, 60, 60)
		want := []int{540}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Clip mismatch: got %v, want %v", got, want)
		}
	})

	t.Run("interval shorter than the duration yields nothing", func(t *testing.T) {
		if got := Clip([]Interval{{Start: 540, End: 580}}, 60, 60); got != nil {
			t.Fatalf("expected no starts, got %v", got)
		}
	})

	t.Run("non-positive step or duration yields nothing", func(t *testing.T) {
		if got := Clip([]Interval{{Start: 540, End: 1020}}, 0, 60); got != nil {
			t.Fatalf("expected no starts for zero step, got %v", got)
		}
		if got := Clip([]Interval{{Start: 540, End: 1020}}, 60, 0); got != nil {
			t.Fatalf("expected no starts for zero duration, got %v", got)
		}
	})
}

func TestContainsWithRoom(t *testing.T) {
	free := []Interval{{Start: 540, End: 720}, {Start: 780, End: 1020}}

	t.Run("inside with room", func(t *testing.T) {
		if !ContainsWithRoom(free, 600, 30) {
			t.Fatalf("expected 600 to fit with 30 minutes of room")
		}
	})

	t.Run("inside but too close to the end", func(t *testing.T) {
		if ContainsWithRoom(free, 700, 30) {
			t.Fatalf("expected 700 to lack room before 720")
		}
	})

	t.Run("outside every interval", func(t *testing.T) {
		if ContainsWithRoom(free, 740, 30) {
			t.Fatalf("expected 740 to be outside free intervals")
		}
	})
}
