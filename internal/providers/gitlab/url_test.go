package gitlab

import "testing"

func TestExtractNumericID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"gid://gitlab/Ci::Pipeline/123": "123",
		"gid://gitlab/Ci::Job/456":      "456",
		"789":                           "789",
	}
	for gid, want := range cases {
		if got := extractNumericID(gid); got != want {
			t.Errorf("extractNumericID(%q) = %q, want %q", gid, got, want)
		}
	}
}

func TestURLBuilderPipelineAndJobURL(t *testing.T) {
	t.Parallel()

	u := newURLBuilder("https://gitlab.com/", "/group/project/")

	if got, want := u.pipelineURL("gid://gitlab/Ci::Pipeline/123456"), "https://gitlab.com/group/project/-/pipelines/123456"; got != want {
		t.Errorf("pipelineURL = %q, want %q", got, want)
	}
	if got, want := u.jobURL("gid://gitlab/Ci::Job/789012"), "https://gitlab.com/group/project/-/jobs/789012"; got != want {
		t.Errorf("jobURL = %q, want %q", got, want)
	}
}
