/*
Package gmailhttp implements an authorized HTTP client for Gmail.

Authorization uses the OAuth 2.0 flow for installed applications.  The
client secrets come from a credentials file downloaded from the Google
Cloud console.  The first run prints a consent URL and reads the
authorization code the user pastes back; the resulting token, which
includes a refresh token, is cached in a token file.  Later runs use
the cached token and write it back whenever it is refreshed.

Only the read-only Gmail scope is requested.  Delete the token file
after changing scopes.

The HTTP client used to talk to the token endpoint is taken from the
context, see oauth2.HTTPClient, so tracing and tests can substitute
their own transport.
*/
package gmailhttp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/matta/jobmail/internal/config"
	"github.com/matta/jobmail/internal/gmail"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// savingTokenSource writes every new token it hands out to a file.
// Satisfies oauth2.TokenSource.
type savingTokenSource struct {
	src  oauth2.TokenSource
	path string
	log  *zap.SugaredLogger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := saveToken(s.path, tok); err != nil {
			// The token is still good for this run.
			s.log.Warnw("unable to cache oauth token", "path", s.path, "error", err)
		}
	}
	return tok, nil
}

// tokenFromFile reads a cached token.
func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, errors.Wrapf(err, "decoding token file %s", path)
	}
	return tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readCode reads one whole line, newline included, so whatever reads
// in next starts at the following line.
func readCode(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrap(err, "reading authorization code")
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return "", errors.New("empty authorization code")
	}
	return code, nil
}

// tokenFromWeb asks the user to authorize access and exchanges the
// code they paste for a token.
func tokenFromWeb(ctx context.Context, conf *oauth2.Config, in *bufio.Reader, out io.Writer) (*oauth2.Token, error) {
	authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(out, "Go to the following link in your browser then type the "+
		"authorization code:\n%v\n", authURL)

	code, err := readCode(in)
	if err != nil {
		return nil, err
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchanging authorization code")
	}
	return tok, nil
}

// New returns an HTTP client authorized for read-only Gmail access.
// The authorization prompt, when needed, is written to out and the
// code read as one line from in.  Callers that keep reading in
// afterwards see the input that follows that line.
func New(ctx context.Context, cfg config.GmailConfig, in *bufio.Reader, out io.Writer, log *zap.SugaredLogger) (*http.Client, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading client secrets")
	}
	conf, err := google.ConfigFromJSON(b, gmail.ReadonlyScope)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing client secrets %s", cfg.CredentialsFile)
	}

	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		log.Infow("no usable cached token; starting authorization", "path", cfg.TokenFile, "error", err)
		if tok, err = tokenFromWeb(ctx, conf, in, out); err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Saving credential file to: %s\n", cfg.TokenFile)
		if err := saveToken(cfg.TokenFile, tok); err != nil {
			return nil, errors.Wrap(err, "unable to cache oauth token")
		}
	}

	src := &savingTokenSource{
		src:  conf.TokenSource(ctx, tok),
		path: cfg.TokenFile,
		log:  log,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}
