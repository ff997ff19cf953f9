package headerrewriter

import (
	"net/http"
	"net/url"
)

// RewriteHeader applies the rewriter to a writable copy of h and returns the
// copy. The original header is left untouched.
func (r *Rewriter) RewriteHeader(h http.Header) (http.Header, error) {
	rewritten, err := r.Apply(MultiValueMap(h).Clone())
	if err != nil {
		return nil, err
	}
	return http.Header(rewritten), nil
}

// RewriteValues applies the rewriter to a writable copy of query-parameter
// style values and returns the copy. The original values are left untouched.
func (r *Rewriter) RewriteValues(v url.Values) (url.Values, error) {
	rewritten, err := r.Apply(MultiValueMap(v).Clone())
	if err != nil {
		return nil, err
	}
	return url.Values(rewritten), nil
}

// HeaderMiddleware returns middleware that forwards each request with its
// headers rewritten. The inbound request is not modified; the downstream
// handler sees a clone carrying the rewritten header.
func (r *Rewriter) HeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header, err := r.RewriteHeader(req.Header)
		if err != nil {
			r.logger.Error("header rewrite failed:", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		clone := req.Clone(req.Context())
		clone.Header = header
		next.ServeHTTP(w, clone)
	})
}

// QueryMiddleware returns middleware that forwards each request with its URL
// query parameters rewritten. The inbound request is not modified.
func (r *Rewriter) QueryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		values, err := r.RewriteValues(req.URL.Query())
		if err != nil {
			r.logger.Error("query rewrite failed:", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		clone := req.Clone(req.Context())
		clone.URL.RawQuery = values.Encode()
		next.ServeHTTP(w, clone)
	})
}
