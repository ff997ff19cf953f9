package headerrewriter

import (
	"context"
	"errors"
	"net/http/httptest"
	"reflect"
	"regexp"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestRewriter_MetadataAnnotator(t *testing.T) {
	tests := []struct {
		name     string
		rewriter *Rewriter
		headers  map[string]string
		expected metadata.MD
	}{
		{
			name:     "secret header stripped before forwarding",
			rewriter: New().Remove("X-Secret"),
			headers: map[string]string{
				"X-Secret":  "hunter2",
				"X-User-Id": "12345",
			},
			expected: metadata.New(map[string]string{"x-user-id": "12345"}),
		},
		{
			name:     "trace header injected",
			rewriter: New().Add("X-Trace-Id", "trace-1"),
			headers:  map[string]string{"X-User-Id": "12345"},
			expected: metadata.New(map[string]string{
				"x-user-id":  "12345",
				"x-trace-id": "trace-1",
			}),
		},
		{
			name:     "pattern removal applies before forwarding",
			rewriter: New().RemoveMatching(regexp.MustCompile("X-Internal-.*")),
			headers: map[string]string{
				"X-Internal-Debug": "1",
				"X-Request-Id":     "req-123",
			},
			expected: metadata.New(map[string]string{"x-request-id": "req-123"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/test", nil)
			for name, value := range tt.headers {
				req.Header.Set(name, value)
			}

			got := tt.rewriter.MetadataAnnotator()(context.Background(), req)

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("MetadataAnnotator() = %v, want %v", got, tt.expected)
			}
			// The request's own headers stay untouched.
			for name, value := range tt.headers {
				if req.Header.Get(name) != value {
					t.Errorf("annotator mutated request header %s: %v", name, req.Header)
				}
			}
		})
	}
}

func TestRewriter_ResponseModifier(t *testing.T) {
	rewriter := New().
		RemoveMatching(regexp.MustCompile("Grpc-Metadata-.*")).
		Set("X-Frame-Options", "DENY")

	w := httptest.NewRecorder()
	w.Header().Set("Grpc-Metadata-Internal", "1")
	w.Header().Set("X-Request-Id", "req-123")

	if err := rewriter.ResponseModifier()(context.Background(), w, nil); err != nil {
		t.Fatalf("ResponseModifier() error = %v", err)
	}

	if got := w.Header().Get("Grpc-Metadata-Internal"); got != "" {
		t.Errorf("Grpc-Metadata-Internal = %q, want removed", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := w.Header().Get("X-Request-Id"); got != "req-123" {
		t.Errorf("X-Request-Id = %q, want untouched req-123", got)
	}
}

func TestRewriter_ResponseModifierSurfacesBuildError(t *testing.T) {
	rewriter := New().Set("X-Frame-Options")

	w := httptest.NewRecorder()
	err := rewriter.ResponseModifier()(context.Background(), w, nil)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ResponseModifier() error = %v, want ErrInvalidArgument", err)
	}
}

func TestRewriter_UnaryServerInterceptor(t *testing.T) {
	rewriter := New().
		Remove("x-secret").
		Add("x-stage", "prod")

	md := metadata.New(map[string]string{
		"x-secret":  "hunter2",
		"x-user-id": "12345",
	})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var seen metadata.MD
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = metadata.FromIncomingContext(ctx)
		return "response", nil
	}

	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}
	resp, err := rewriter.UnaryServerInterceptor()(ctx, "request", info, handler)
	if err != nil {
		t.Fatalf("UnaryServerInterceptor() error = %v", err)
	}
	if resp != "response" {
		t.Errorf("response = %v, want %v", resp, "response")
	}

	want := metadata.MD{
		"x-user-id": {"12345"},
		"x-stage":   {"prod"},
	}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("handler saw metadata %v, want %v", seen, want)
	}
	if got := md.Get("x-secret"); len(got) != 1 || got[0] != "hunter2" {
		t.Errorf("interceptor mutated the caller's metadata: %v", md)
	}
}

type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context {
	return m.ctx
}

func TestRewriter_StreamServerInterceptor(t *testing.T) {
	rewriter := New().Remove("x-secret")

	md := metadata.New(map[string]string{
		"x-secret":  "hunter2",
		"x-user-id": "12345",
	})
	stream := &mockServerStream{
		ctx: metadata.NewIncomingContext(context.Background(), md),
	}

	var seen metadata.MD
	handler := func(srv interface{}, ss grpc.ServerStream) error {
		seen, _ = metadata.FromIncomingContext(ss.Context())
		return nil
	}

	info := &grpc.StreamServerInfo{FullMethod: "/test.Service/Stream"}
	if err := rewriter.StreamServerInterceptor()(nil, stream, info, handler); err != nil {
		t.Fatalf("StreamServerInterceptor() error = %v", err)
	}

	want := metadata.MD{"x-user-id": {"12345"}}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("handler saw metadata %v, want %v", seen, want)
	}
}

func TestCreateGatewayMux(t *testing.T) {
	rewriter := New().Remove("X-Secret")

	if mux := CreateGatewayMux(rewriter); mux == nil {
		t.Error("CreateGatewayMux() returned nil")
	}
}
