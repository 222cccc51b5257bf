package prompts

import (
	"bytes"
	"strings"
	"text/template"
)

type AttributePromptData struct {
	Attribute string
	Facts     string
}

type PerformancePromptData struct {
	Facts string
}

// SupervisorPromptData carries the verbatim text of the three earlier
// reports and nothing else.
type SupervisorPromptData struct {
	FirstAttribute    string
	SecondAttribute   string
	FirstReport       string
	SecondReport      string
	PerformanceReport string
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
}

// Generate renders baseTemplate with data. Unknown fields are an error.
func Generate(name, baseTemplate string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
