package waydroid

import (
	"bufio"
	"strings"
)

// AppEntry is an installed application.
type AppEntry struct {
	Label   string `json:"label"`
	Package string `json:"package"`
}

// ParseRunning reports whether the output of "waydroid status" says
// that the session is running. Depending on the version, that is
// either "Session: RUNNING" or "Running: Yes".
func ParseRunning(out string) bool {
	return strings.Contains(strings.ToLower(out), "running")
}

// ParseApps parses the output of "waydroid app list". If the output
// has no records in the usual format, it is parsed one line at a time
// instead. Output that matches neither format gives an empty list.
func ParseApps(out string) []AppEntry {
	apps := parseRecords(out)
	if (len(apps) > 0) || (strings.TrimSpace(out) == "") {
		return apps
	}
	return parseLines(out)
}

// parseRecords parses blocks of "Name:" and "packageName:" lines
// separated by blank lines.
func parseRecords(out string) []AppEntry {
	var apps []AppEntry
	var name, pkg string
	flush := func() {
		if (name != "") && (pkg != "") {
			apps = append(apps, AppEntry{Label: name, Package: pkg})
		}
		name, pkg = "", ""
	}

	s := bufio.NewScanner(strings.NewReader(out))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "Name:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "packageName:"):
			pkg = strings.TrimSpace(strings.TrimPrefix(line, "packageName:"))
		}
	}
	flush()

	return apps
}

// parseLines accepts "pkg - label", "label (pkg)" and "pkg label"
// lines, in that order of preference.
func parseLines(out string) []AppEntry {
	var apps []AppEntry
	seen := make(map[string]struct{})

	s := bufio.NewScanner(strings.NewReader(out))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		app, ok := parseLine(line)
		if !ok {
			continue
		}
		if _, dup := seen[app.Package]; dup {
			continue
		}
		seen[app.Package] = struct{}{}
		apps = append(apps, app)
	}

	return apps
}

func parseLine(line string) (AppEntry, bool) {
	if pkg, label, ok := strings.Cut(line, " - "); ok {
		pkg = strings.TrimSpace(pkg)
		if isPackage(pkg) {
			return entry(pkg, label), true
		}
	}

	if strings.HasSuffix(line, ")") {
		if i := strings.LastIndexByte(line, '('); i >= 0 {
			pkg := strings.TrimSpace(line[i+1 : len(line)-1])
			if isPackage(pkg) {
				return entry(pkg, line[:i]), true
			}
		}
	}

	pkg, label, _ := strings.Cut(line, " ")
	if isPackage(pkg) {
		return entry(pkg, label), true
	}

	return AppEntry{}, false
}

func entry(pkg, label string) AppEntry {
	label = strings.TrimSpace(label)
	if label == "" {
		label = pkg
	}
	return AppEntry{Label: label, Package: pkg}
}

func isPackage(token string) bool {
	return (token != "") &&
		strings.Contains(token, ".") &&
		!strings.ContainsAny(token, " \t")
}
