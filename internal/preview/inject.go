package preview

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	scriptTag     = `<script src="/livereload.js"></script>`
	maxInjectSize = 512 * 1024
)

// injectScript adds the live reload script tag to HTML responses.
func injectScript(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "" && !strings.HasSuffix(path, "/") && !strings.HasSuffix(path, ".html") {
			next.ServeHTTP(w, r)
			return
		}
		inj := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// injector buffers an HTML body up to maxInjectSize so the script tag can be
// placed before </body>. Larger or non-HTML bodies pass through untouched.
type injector struct {
	http.ResponseWriter
	status        int
	buf           []byte
	headerWritten bool
	passthrough   bool
	decided       bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.ResponseWriter.WriteHeader(code)
		i.headerWritten = true
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.decided {
		i.decided = true
		ct := i.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			i.startPassthrough()
		}
	}
	if i.passthrough {
		return i.ResponseWriter.Write(data)
	}
	if len(i.buf)+len(data) > maxInjectSize {
		i.startPassthrough()
		if _, err := i.ResponseWriter.Write(i.buf); err != nil {
			return 0, err
		}
		i.buf = nil
		return i.ResponseWriter.Write(data)
	}
	i.buf = append(i.buf, data...)
	return len(data), nil
}

func (i *injector) startPassthrough() {
	i.passthrough = true
	i.Header().Del("Content-Length")
	i.ResponseWriter.WriteHeader(i.status)
	i.headerWritten = true
}

func (i *injector) finalize() {
	if i.passthrough {
		return
	}
	if len(i.buf) == 0 {
		if !i.headerWritten {
			i.ResponseWriter.WriteHeader(i.status)
		}
		return
	}
	body := string(i.buf)
	if idx := strings.LastIndex(body, "</body>"); idx >= 0 {
		body = body[:idx] + scriptTag + body[idx:]
	} else {
		body += scriptTag
	}
	i.Header().Set("Content-Length", strconv.Itoa(len(body)))
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write([]byte(body))
}
