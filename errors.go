package copernicus

import (
	"errors"

	"github.com/MrChebur/Copernicus-OData-wrapper/internal/query"
	"github.com/MrChebur/Copernicus-OData-wrapper/internal/response"
)

// Sentinel errors returned while building a request.
// These can be used with errors.Is() for error handling.
var (
	// ErrInvalidArgument indicates an argument outside the accepted set, such as an
	// unknown $orderby field or a nil filter.
	ErrInvalidArgument = query.ErrInvalidArgument

	// ErrTypeMismatch indicates an attribute was compared with a value of the wrong type.
	ErrTypeMismatch = query.ErrTypeMismatch

	// ErrUnsupportedOperator indicates a relational operator on a String attribute.
	ErrUnsupportedOperator = query.ErrUnsupportedOperator

	// ErrUnsupportedGeometry indicates a MULTIPOLYGON was passed to ByGeometry.
	ErrUnsupportedGeometry = query.ErrUnsupportedGeometry

	// ErrOutOfRange indicates $top or $skip outside its bounds.
	ErrOutOfRange = query.ErrOutOfRange
)

// Sentinel errors for the error payloads the catalogue is known to return.
// A *RemoteError unwraps to exactly one of them.
var (
	// ErrRemoteUnauthorized matches {"detail": "Unauthorized"}.
	ErrRemoteUnauthorized = response.ErrRemoteUnauthorized

	// ErrRemoteInvalidPath matches {"detail": "Invalid odata path"}.
	ErrRemoteInvalidPath = response.ErrRemoteInvalidPath

	// ErrRemoteNotFound matches {"detail": "Not Found"}.
	ErrRemoteNotFound = response.ErrRemoteNotFound

	// ErrRemoteExpiredSignature matches {"detail": "Expired signature!"}.
	ErrRemoteExpiredSignature = response.ErrRemoteExpiredSignature

	// ErrRemoteProductNotFound matches {"detail": "Product not found in catalogue"}.
	ErrRemoteProductNotFound = response.ErrRemoteProductNotFound

	// ErrRemoteUnknown matches any other detail payload.
	ErrRemoteUnknown = response.ErrRemoteUnknown
)

var (
	// ErrNotImplemented is returned by endpoints the client declares but does not serve.
	ErrNotImplemented = errors.New("copernicus: not implemented")

	// ErrNoNextPage is returned by Next when the page carries no @odata.nextLink.
	ErrNoNextPage = errors.New("copernicus: no next page")
)

// RemoteError is an error payload returned by the catalogue, carrying the request URL
// and the detail text.
type RemoteError = response.RemoteError

// KnownError enumerates the catalogue error payloads.
type KnownError = response.KnownError

// Known catalogue error kinds.
const (
	Unknown                    = response.Unknown
	Unauthorized               = response.Unauthorized
	InvalidODataPath           = response.InvalidODataPath
	NotFound                   = response.NotFound
	ExpiredSignature           = response.ExpiredSignature
	ProductNotFoundInCatalogue = response.ProductNotFoundInCatalogue
)

// IsRemoteError returns true if err carries a catalogue error payload.
//
// Example usage:
//
//	page, err := client.Send(ctx, opts)
//	if copernicus.IsRemoteError(err) {
//	    log.Printf("catalogue refused the query: %v", err)
//	}
func IsRemoteError(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}

// IsBuilderError returns true if err was produced while building a filter or options,
// before any request was made.
func IsBuilderError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrUnsupportedOperator) ||
		errors.Is(err, ErrUnsupportedGeometry) ||
		errors.Is(err, ErrOutOfRange)
}
