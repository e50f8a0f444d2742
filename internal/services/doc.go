// Package services talks to the Google Photos Library API.
//
// # Album Service
//
// [AlbumService] is the narrow set of album operations autoalbum needs. [PhotosService] implements it with
// github.com/nekr0z/gphotoslibrary; tests substitute the mock in internal/testing.
//
// Listings are paged by the server. [FetchAll] follows continuation tokens until an empty one, one call per page
// and no retries. Mutations accept at most [DefaultBatchSize] ids, so [Batch] splits them into contiguous chunks
// and attempts every chunk, reporting failures as a [*BatchError].
//
// # Authentication
//
// [OAuthConfig] parses the client secret stored in the sync configuration. [Authenticator] resolves a token from a
// [CredentialStore], refreshing it or falling back to an interactive [LoginFunc], and hands back an HTTP client
// that writes refreshed tokens back to the store.
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : a list, search or create call failed
//   - [shared.ErrAlbumNotFound] : the album id does not exist
//   - [shared.ErrNotAuthenticated] : no cached token
//   - [shared.ErrNoRefreshToken] : a login is needed but not possible
//   - [shared.ErrAuthFailed] : the interactive login failed
//
// The underlying *googleapi.Error stays reachable with errors.As; [IsPermissionDenied] classifies rejected mutations.
package services
