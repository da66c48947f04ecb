package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AranL152/GeetCode/internal/application"
	"github.com/AranL152/GeetCode/internal/domain/model"
)

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{"python", "py"},
		{"python3", "py"},
		{"Python3", "py"},
		{"GOLANG", "go"},
		{"cpp", "cpp"},
		{"mysql", "sql"},
		{"haskell", "txt"},
		{"", "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			assert.Equal(t, tt.want, application.ExtensionFor(tt.language))
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Two Sum", "Two Sum"},
		{"a/b\\c", "a-b-c"},
		{`?%*:|"<>`, "--------"},
		{"Valid Title 123", "Valid Title 123"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, application.SanitizeTitle(tt.title))
		})
	}
}

func TestSolutionPath(t *testing.T) {
	sub := model.Submission{ProblemTitle: "Two Sum", Language: "python"}
	assert.Equal(t, "Two Sum.py", application.SolutionPath(sub))
}

func TestDefaultCommitMessage(t *testing.T) {
	sub := model.Submission{ProblemTitle: "Two Sum", Language: "python"}
	assert.Equal(t, "Two Sum Solved", application.DefaultCommitMessage(sub))
}
