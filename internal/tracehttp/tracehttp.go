// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracehttp

import (
	"net/http"
	"net/http/httputil"
	"regexp"

	"go.uber.org/zap"
)

// Bearer tokens and client secrets must not reach the log.
var redactions = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^(Authorization:\s*)[^\r\n]*`),
	regexp.MustCompile(`(?i)((?:access_token|refresh_token|client_secret|code)"?\s*[:=]\s*"?)[^"&\s,}]+`),
}

func redact(dump []byte) string {
	for _, re := range redactions {
		dump = re.ReplaceAll(dump, []byte("${1}REDACTED"))
	}
	return string(dump)
}

// traceTransport is an http.RoundTripper that logs the request and
// response at debug level while delegating the real work to another
// http.RoundTripper.
type traceTransport struct {
	delegate http.RoundTripper
	log      *zap.SugaredLogger
}

// RoundTrip logs a dump of the request and response while delegating
// the round trip to the delegate.
func (t *traceTransport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	dump, dumpErr := httputil.DumpRequestOut(req, true)
	if dumpErr == nil {
		t.log.Debugw("http request", "dump", redact(dump))
	}
	resp, err = t.delegate.RoundTrip(req)
	if err != nil {
		t.log.Debugw("http round trip failed", "url", req.URL.String(), "error", err)
		return resp, err
	}
	dump, dumpErr = httputil.DumpResponse(resp, true)
	if dumpErr == nil {
		t.log.Debugw("http response", "dump", redact(dump))
	}
	return resp, err
}

func Wrap(d http.RoundTripper, log *zap.SugaredLogger) http.RoundTripper {
	if d == nil {
		d = http.DefaultTransport
	}
	return &traceTransport{delegate: d, log: log}
}

// Client returns an http.Client whose transport traces through log.
func Client(log *zap.SugaredLogger) *http.Client {
	return &http.Client{Transport: Wrap(http.DefaultTransport, log)}
}
