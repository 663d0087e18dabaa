package gitlab

import "strings"

// urlBuilder formats evidence links back to GitLab's web UI from the
// GraphQL GIDs returned in pipeline and job payloads (spec §4.6).
type urlBuilder struct {
	baseURL     string
	projectPath string
}

func newURLBuilder(baseURL, projectPath string) urlBuilder {
	return urlBuilder{
		baseURL:     strings.TrimRight(baseURL, "/"),
		projectPath: strings.Trim(projectPath, "/"),
	}
}

func (u urlBuilder) pipelineURL(gid string) string {
	return u.baseURL + "/" + u.projectPath + "/-/pipelines/" + extractNumericID(gid)
}

func (u urlBuilder) jobURL(gid string) string {
	return u.baseURL + "/" + u.projectPath + "/-/jobs/" + extractNumericID(gid)
}

// extractNumericID pulls the trailing numeric ID off a GitLab global
// ID, e.g. "gid://gitlab/Ci::Pipeline/123" -> "123".
func extractNumericID(gid string) string {
	if idx := strings.LastIndex(gid, "/"); idx != -1 {
		return gid[idx+1:]
	}
	return gid
}
