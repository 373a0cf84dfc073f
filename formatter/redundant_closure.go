package formatter

// RedundantClosureFormatter renders both redundant-closure rules. The
// machine-applicable rewrite is promoted to its own block so it can be read
// off (or applied by the fixer) directly.
type RedundantClosureFormatter struct{}

func (f *RedundantClosureFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{if .Suggestion -}}
{{replacement .Suggestion .Padding -}}
{{end -}}
{{if .Note -}}
{{note .Note -}}
{{end}}
`
}

func replacement(suggestion string, padding string) string {
	if suggestion == "" {
		return ""
	}

	endString := "\n"
	endString += suggestionStyle.Sprint("Rewrite:\n")
	endString += lineStyle.Sprintf("%s| ", padding)
	endString += "replace the function literal with "
	endString += suggestionStyle.Sprintf("`%s`\n", suggestion)
	return endString
}
