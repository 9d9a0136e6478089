package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/logger"
)

// TxMiddleware runs the handler inside a database transaction.
//
// The response is held back until the transaction is settled: a status of
// 400 or above rolls it back, anything else commits. If the commit fails the
// client gets a 500 instead of the buffered response.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeInternalError(w)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			ctx := setTxToContext(r.Context(), tx)
			r = r.WithContext(ctx)

			bw := &bufferedWriter{header: w.Header(), statusCode: http.StatusOK}
			next.ServeHTTP(bw, r)

			if bw.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				bw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				writeInternalError(w)
				return
			}
			bw.flush(w)
		})
	}
}

// bufferedWriter records the handler's response so it can be replaced.
type bufferedWriter struct {
	header     http.Header
	statusCode int
	written    bool
	body       bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.written {
		return
	}
	bw.statusCode = code
	bw.written = true
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.written = true
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	w.WriteHeader(bw.statusCode)
	w.Write(bw.body.Bytes())
}

func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(`{"error":"Internal server error"}` + "\n"))
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var txKey = contextKey{}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}
