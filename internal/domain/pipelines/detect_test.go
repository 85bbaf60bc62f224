package pipelines

import "testing"

func TestDetectProjectType(t *testing.T) {
	cases := []struct {
		url  string
		want ProjectType
	}{
		{"https://github.com/acme/payments-go", TypeGo},
		{"https://github.com/acme/golang-utils", TypeGo},
		{"https://github.com/acme/node-dashboard", TypeNode},
		{"https://github.com/acme/frontend-ts", TypeNode},
		{"https://github.com/acme/python-worker", TypePython},
		{"https://github.com/acme/django-site", TypePython},
		{"https://github.com/acme/infra", TypeUnknown},
		{"", TypeUnknown},
	}

	for _, tc := range cases {
		if got := DetectProjectType(tc.url); got != tc.want {
			t.Errorf("DetectProjectType(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}
