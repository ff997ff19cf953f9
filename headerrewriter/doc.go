// Package headerrewriter records an ordered list of modifications against
// multi-valued string maps and applies them to header-like and
// query-parameter-like collections before they are rendered.
//
// http.Header, url.Values and gRPC metadata.MD all share the underlying
// type map[string][]string, so one rewriter can serve all three.
//
// # Basic Usage
//
//	rewriter := headerrewriter.New().
//		Set("Accept", "application/json").
//		Remove("Cookie").
//		RemoveMatching(regexp.MustCompile(`X-Internal-.*`))
//
//	header, err := rewriter.RewriteHeader(req.Header)
//
// Modifications are applied strictly in the order they were recorded, so
// a Set after an Add overwrites it and a Remove after an Add undoes it.
// Removals of keys or values that turn out to be absent are silent no-ops,
// which keeps one rewriter reusable across inputs of varying shape.
//
// # Configuration
//
// Rewriters can be built programmatically via the fluent methods or
// declaratively from rule lists loaded from JSON/YAML files.
//
// # gRPC Integration
//
// The package provides grpc-gateway glue and gRPC interceptors:
//
//	mux := headerrewriter.CreateGatewayMux(rewriter)
//
//	grpcServer := grpc.NewServer(
//		grpc.UnaryInterceptor(rewriter.UnaryServerInterceptor()),
//		grpc.StreamInterceptor(rewriter.StreamServerInterceptor()),
//	)
package headerrewriter
