package respond

import (
	"regexp"
)

var (
	// apiKeyParamPattern matches credential query parameters of every provider:
	// apiKey (NewsAPI), api-key (Guardian, NYT) and api_key.
	apiKeyParamPattern = regexp.MustCompile(`(?i)((?:api[-_]?key)=)[^&\s"']+`)

	// apiKeyHeaderPattern matches an X-Api-Key header echoed into an error.
	apiKeyHeaderPattern = regexp.MustCompile(`(?i)(x-api-key:\s*)\S+`)

	// userinfoPattern matches credentials embedded in a URL (feed URLs may carry them).
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@/\s]+)@`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error())
}

// SanitizeString masks credentials in s.
func SanitizeString(s string) string {
	s = apiKeyParamPattern.ReplaceAllString(s, "${1}****")
	s = apiKeyHeaderPattern.ReplaceAllString(s, "${1}****")
	s = userinfoPattern.ReplaceAllString(s, "://$1:****@")
	return s
}
