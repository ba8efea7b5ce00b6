package logging

import "strings"

// FormatSubject builds the request/entity subject string used in console output.
func FormatSubject(method, path, entity, entityID string) string {
	parts := make([]string, 0, 2)
	method = strings.ToUpper(strings.TrimSpace(method))
	path = strings.TrimSpace(path)
	switch {
	case method != "" && path != "":
		parts = append(parts, method+" "+path)
	case path != "":
		parts = append(parts, path)
	}
	entity = strings.TrimSpace(entity)
	entityID = strings.TrimSpace(entityID)
	switch {
	case entity != "" && entityID != "":
		parts = append(parts, entity+" "+entityID)
	case entity != "":
		parts = append(parts, entity)
	}
	return strings.Join(parts, " · ")
}
