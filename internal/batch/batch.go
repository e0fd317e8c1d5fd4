// Package batch derives session keys for many requests at once.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lorawan-tools/nwksintkeys/internal/logging"
	"github.com/lorawan-tools/nwksintkeys/internal/sessionkeys"
)

// ErrParse is returned for a malformed batch line.
var ErrParse = errors.New("batch parse error")

// Request holds a single derivation request.
type Request struct {
	Line      int
	RootKey   string
	JoinNonce string
	JoinEUI   string
	DevNonce  string
}

// Result holds the outcome of a single request.
type Result struct {
	Request Request
	Keys    sessionkeys.SessionKeys
	Err     error
}

// Parse reads one request per line: NwkKey, JoinNonce, JoinEUI and DevNonce
// separated by whitespace or commas. Blank lines and lines starting with
// '#' are skipped.
func Parse(r io.Reader) ([]Request, error) {
	var out []Request

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		s := strings.TrimSpace(scanner.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}

		fields := strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		if len(fields) != 4 {
			return nil, errors.Wrap(ErrParse, fmt.Sprintf("line %d: expected 4 fields, got %d", line, len(fields)))
		}

		out = append(out, Request{
			Line:      line,
			RootKey:   fields[0],
			JoinNonce: fields[1],
			JoinEUI:   fields[2],
			DevNonce:  fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read batch error")
	}

	return out, nil
}

// Run derives the keys for all requests, using at most workers concurrent
// derivations. The results are returned in request order. A failed
// derivation is recorded in its Result and does not stop the others.
func Run(ctx context.Context, d *sessionkeys.Deriver, reqs []Request, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range reqs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			rctx, err := logging.WithContextID(gctx)
			if err != nil {
				return err
			}

			req := reqs[i]
			keys, err := d.DeriveKeysFromHex(req.RootKey, req.JoinNonce, req.JoinEUI, req.DevNonce)
			if err != nil {
				log.WithFields(logging.Fields(rctx)).WithError(err).WithField("line", req.Line).Warning("batch: derivation failed")
			} else {
				log.WithFields(logging.Fields(rctx)).WithField("line", req.Line).Debug("batch: keys derived")
			}

			results[i] = Result{
				Request: req,
				Keys:    keys,
				Err:     err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
