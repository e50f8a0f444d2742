// Package server runs the short-lived local HTTP server that receives the OAuth2 redirect from Google.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback. It validates the state parameter, exchanges the code
// (with a PKCE verifier when one was generated) and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// `autoalbum auth login` and `autoalbum configure` start a [Server] on the [server] host and port from the settings
// file, open the browser on the authorization URL and shut the server down once a result arrives or two minutes pass.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
