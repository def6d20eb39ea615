package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"

	errs "redditminer/pkg/errors"
)

const httpOnlyPrefix = "#HttpOnly_"

var headerPattern = regexp.MustCompile(`#( Netscape)? HTTP Cookie File`)

// Entry is one cookie line from a Netscape cookie file
type Entry struct {
	Domain            string
	IncludeSubdomains bool
	Path              string
	Secure            bool
	HttpOnly          bool
	Name              string
	Value             string
}

// Cookie converts the entry to an http.Cookie. Expiry is dropped on purpose so
// the jar keeps cookies that the browser export already marked as expired.
func (e Entry) Cookie() *http.Cookie {
	c := &http.Cookie{
		Name:     e.Name,
		Value:    e.Value,
		Path:     e.Path,
		Secure:   e.Secure,
		HttpOnly: e.HttpOnly,
	}
	if e.IncludeSubdomains {
		c.Domain = e.Domain
	}
	return c
}

// URL is the origin the cookie is stored under in a jar
func (e Entry) URL() *url.URL {
	scheme := "http"
	if e.Secure {
		scheme = "https"
	}
	path := e.Path
	if path == "" {
		path = "/"
	}
	return &url.URL{Scheme: scheme, Host: strings.TrimPrefix(e.Domain, "."), Path: path}
}

// Parse reads a Netscape/Mozilla cookie file
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("empty cookie file")
	}
	if !headerPattern.MatchString(scanner.Text()) {
		return nil, fmt.Errorf("does not look like a Netscape format cookies file")
	}

	var entries []Entry
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}

		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "$") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			return nil, fmt.Errorf("invalid cookie line %d: expected 7 tab-separated fields, got %d", lineNo, len(fields))
		}

		entry := Entry{
			Domain:            fields[0],
			IncludeSubdomains: fields[1] == "TRUE",
			Path:              fields[2],
			Secure:            fields[3] == "TRUE",
			HttpOnly:          httpOnly,
			Name:              fields[5],
			Value:             fields[6],
		}
		// A nameless cookie carries its value as the name.
		if entry.Name == "" {
			entry.Name, entry.Value = entry.Value, ""
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// NewJar builds a cookie jar holding the given entries
func NewJar(entries []Entry) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		jar.SetCookies(e.URL(), []*http.Cookie{e.Cookie()})
	}
	return jar, nil
}

// LoadFile loads a Netscape cookie file into a jar. Every failure is reported
// as a configuration error.
func LoadFile(path string) (*cookiejar.Jar, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.NewConfigurationError(fmt.Sprintf("cookie file not found: %s", path), err)
		}
		return nil, errs.NewConfigurationError(fmt.Sprintf("cannot open cookie file %s", path), err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, errs.NewConfigurationError(fmt.Sprintf("malformed cookie file %s", path), err)
	}

	jar, err := NewJar(entries)
	if err != nil {
		return nil, errs.NewConfigurationError("cannot build cookie jar", err)
	}
	return jar, nil
}
