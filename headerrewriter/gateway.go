package headerrewriter

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
)

// MetadataAnnotator returns an annotator that rewrites a copy of the incoming
// HTTP headers and forwards the result as outgoing gRPC metadata. Keys pass
// through metadata.MD's own normalization on the way out.
func (r *Rewriter) MetadataAnnotator() func(context.Context, *http.Request) metadata.MD {
	return func(ctx context.Context, req *http.Request) metadata.MD {
		rewritten, err := r.Apply(MultiValueMap(req.Header).Clone())
		if err != nil {
			r.logger.Error("metadata rewrite failed:", err)
			return metadata.MD{}
		}

		md := metadata.MD{}
		for name, values := range rewritten {
			md.Append(name, values...)
		}

		if r.debug {
			r.logger.Debug("rewrote incoming metadata:", md)
		}

		return md
	}
}

// ResponseModifier returns a forward-response option that rewrites the
// response headers in place before the gateway renders them.
func (r *Rewriter) ResponseModifier() func(context.Context, http.ResponseWriter, proto.Message) error {
	return func(ctx context.Context, w http.ResponseWriter, msg proto.Message) error {
		if _, err := r.Apply(MultiValueMap(w.Header())); err != nil {
			return err
		}

		if r.debug {
			r.logger.Debug("rewrote response headers")
		}

		return nil
	}
}

// UnaryServerInterceptor returns a gRPC unary interceptor that runs each
// handler on a context whose incoming metadata has been rewritten.
func (r *Rewriter) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx, err := r.rewriteIncomingContext(ctx)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor returns a gRPC stream interceptor that runs each
// handler on a stream whose incoming metadata has been rewritten.
func (r *Rewriter) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := r.rewriteIncomingContext(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

// rewriteIncomingContext applies the rewriter to a writable copy of the
// incoming metadata and derives a context carrying the result.
func (r *Rewriter) rewriteIncomingContext(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	}

	rewritten, err := r.Apply(MultiValueMap(md).Clone())
	if err != nil {
		return nil, err
	}

	return metadata.NewIncomingContext(ctx, metadata.MD(rewritten)), nil
}

// wrappedServerStream wraps a grpc.ServerStream to provide custom context
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// CreateGatewayMux creates a grpc-gateway ServeMux with the rewriter applied
// to incoming metadata and outgoing response headers.
func CreateGatewayMux(r *Rewriter, opts ...runtime.ServeMuxOption) *runtime.ServeMux {
	// Prepend our options
	allOpts := []runtime.ServeMuxOption{
		runtime.WithMetadata(r.MetadataAnnotator()),
		runtime.WithForwardResponseOption(r.ResponseModifier()),
	}

	// Add user-provided options
	allOpts = append(allOpts, opts...)

	return runtime.NewServeMux(allOpts...)
}
