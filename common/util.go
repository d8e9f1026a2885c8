package common

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	uuid "github.com/satori/go.uuid"
)

func RandomUUID() string {
	return uuid.NewV4().String()
}

// PrettyMap renders the map sorted by key.
func PrettyMap(m map[string]interface{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b := new(bytes.Buffer)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%v ", k, m[k])
	}

	return strings.TrimSpace(b.String())
}
