package respond

import "regexp"

// redaction rules, most specific first: an Anthropic key also matches the
// generic sk- rule.
var redactions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`), "sk-ant-****"},
	{regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`), "sk-****"},
	// postgres://user:pw@ and redis://:pw@
	{regexp.MustCompile(`://([^:/@\s]*):([^@\s]+)@`), "://$1:****@"},
	// keyword DSNs and SMTP auth errors
	{regexp.MustCompile(`(?i)\bpassword=\S+`), "password=****"},
	{regexp.MustCompile(`Bearer [A-Za-z0-9\-_.]+`), "Bearer ****"},
	// a bare admin JWT
	{regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`), "****.jwt"},
}

// SanitizeError returns err's message with credentials masked. Used for
// anything that leaves the process, logs included.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, r := range redactions {
		msg = r.re.ReplaceAllString(msg, r.repl)
	}
	return msg
}
