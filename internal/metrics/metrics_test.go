package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/edit-story/3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f": "/edit-story/{id}",
		"/delete-story/42": "/delete-story/{id}",
		"/get-all-stories": "/get-all-stories",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIncStoryMutation(t *testing.T) {
	before := testutil.ToFloat64(StoryMutations.WithLabelValues("create"))
	IncStoryMutation("create")
	if got := testutil.ToFloat64(StoryMutations.WithLabelValues("create")); got != before+1 {
		t.Errorf("create counter: got %v, want %v", got, before+1)
	}
}
