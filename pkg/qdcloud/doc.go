// Package qdcloud holds the contracts shared by the Qodana Cloud client:
// the Response result type and its error taxonomy, Request, and the
// HTTPClient and Environment interfaces.
//
// # Responses
//
// Every operation that talks to Qodana Cloud returns a Response[T]. A
// response either holds a value or one of two errors:
//
//   - *OfflineError: no classifiable answer (connection refused, reset,
//     timeout, cancelled context).
//   - *ResponseError: the server answered with a non-2xx status, or a local
//     check failed (invalid path, undecodable body). StatusCode is 0 for
//     local failures.
//
// Dependent calls are written in straight-line code with Get and FromError;
// the first failure is returned as is:
//
//	func projectOfUser(ctx context.Context, api *v1.UserAPI, originURL string) qdcloud.Response[v1.Project] {
//		found, err := api.GetProjectByOriginURL(ctx, originURL).Get()
//		if err != nil {
//			return qdcloud.FromError[v1.Project](err)
//		}
//
//		if len(found.MatchingProjects) == 0 {
//			return qdcloud.Failure[v1.Project]("no project for "+originURL, 0, nil)
//		}
//
//		return api.GetProjectProperties(ctx, found.MatchingProjects[0].ProjectID)
//	}
//
// Map and Then do the same without branching.
//
// # Errors
//
// Helpers such as IsOffline, IsNotFound and StatusCode inspect the error of
// a response. Local failures wrap sentinel errors (ErrAbsolutePath,
// ErrDecodeResponse, ...) that can be matched with errors.Is.
package qdcloud
