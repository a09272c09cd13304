package api

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"killick/pkg/logging"
)

const (
	maxLogParamLen = 20
	defaultLogTail = 20
)

// key=value or key="value with spaces"
var logRegex = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

// handleLatestLog returns the last captured log line.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	line := logging.GlobalLogCapture.Last()
	writeJSON(w, map[string]string{"log": formatLogLine(line)})
}

// handleLogTail returns the last n captured lines, oldest first.
func handleLogTail(w http.ResponseWriter, r *http.Request) {
	n := defaultLogTail
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 {
			http.Error(w, "n must be a positive integer", http.StatusBadRequest)
			return
		}
		n = min(v, logging.TailSize)
	}

	lines := logging.GlobalLogCapture.Tail(n)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = formatLogLine(l)
	}
	writeJSON(w, map[string][]string{"lines": out})
}

// formatLogLine turns a slog text line into "HH:MM:SS msg (k=v, ...)" with
// params sorted and long values dropped.
func formatLogLine(raw string) string {
	matches := logRegex.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return raw
	}

	var msg, clock string
	var params []string

	for _, m := range matches {
		key, val := m[1], m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch key {
		case "level", "source":
		case "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				clock = t.Format(time.TimeOnly)
			}
		case "msg":
			msg = val
		default:
			if len(val) <= maxLogParamLen {
				params = append(params, key+"="+val)
			}
		}
	}

	if msg == "" {
		return raw
	}

	slices.Sort(params)

	out := msg
	if clock != "" {
		out = clock + " " + msg
	}
	if len(params) > 0 {
		out = fmt.Sprintf("%s (%s)", out, strings.Join(params, ", "))
	}
	return out
}
