package response

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Remote error sentinels. A *RemoteError unwraps to exactly one of them.
var (
	ErrRemoteUnauthorized     = errors.New("catalogue: unauthorized")
	ErrRemoteInvalidPath      = errors.New("catalogue: invalid odata path")
	ErrRemoteNotFound         = errors.New("catalogue: not found")
	ErrRemoteExpiredSignature = errors.New("catalogue: expired signature")
	ErrRemoteProductNotFound  = errors.New("catalogue: product not found in catalogue")
	ErrRemoteUnknown          = errors.New("catalogue: unknown error")
)

// KnownError enumerates the error payloads the catalogue is known to return.
type KnownError int

const (
	Unknown KnownError = iota
	Unauthorized
	InvalidODataPath
	NotFound
	ExpiredSignature
	ProductNotFoundInCatalogue
)

// knownDetails binds each KnownError to the exact detail text the catalogue sends.
var knownDetails = map[string]KnownError{
	"Unauthorized":                   Unauthorized,
	"Invalid odata path":             InvalidODataPath,
	"Not Found":                      NotFound,
	"Expired signature!":             ExpiredSignature,
	"Product not found in catalogue": ProductNotFoundInCatalogue,
}

// String returns the kind name.
func (k KnownError) String() string {
	switch k {
	case Unauthorized:
		return "Unauthorized"
	case InvalidODataPath:
		return "InvalidODataPath"
	case NotFound:
		return "NotFound"
	case ExpiredSignature:
		return "ExpiredSignature"
	case ProductNotFoundInCatalogue:
		return "ProductNotFoundInCatalogue"
	default:
		return "Unknown"
	}
}

// Sentinel returns the error value errors.Is matches for k.
func (k KnownError) Sentinel() error {
	switch k {
	case Unauthorized:
		return ErrRemoteUnauthorized
	case InvalidODataPath:
		return ErrRemoteInvalidPath
	case NotFound:
		return ErrRemoteNotFound
	case ExpiredSignature:
		return ErrRemoteExpiredSignature
	case ProductNotFoundInCatalogue:
		return ErrRemoteProductNotFound
	default:
		return ErrRemoteUnknown
	}
}

// RemoteError is an error payload returned by the catalogue.
type RemoteError struct {
	Kind   KnownError
	URL    string
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Kind == Unknown {
		return fmt.Sprintf("unknown catalogue error while requesting %s: %s", e.URL, e.Detail)
	}
	return fmt.Sprintf("catalogue error %s while requesting %s: %s", e.Kind, e.URL, e.Detail)
}

// Unwrap returns the sentinel matching e.Kind.
func (e *RemoteError) Unwrap() error {
	return e.Kind.Sentinel()
}

// Classify inspects a response body for an error payload. Only a JSON object with
// exactly one key, "detail", is an error; everything else, including bodies that are
// not JSON, returns nil. HTTP status codes are not consulted.
func Classify(body []byte, requestURL string) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	if len(payload) != 1 {
		return nil
	}
	raw, ok := payload["detail"]
	if !ok {
		return nil
	}

	var detail string
	if err := json.Unmarshal(raw, &detail); err != nil {
		// FastAPI validation errors carry a list here; keep the raw text.
		detail = string(raw)
	}

	kind, ok := knownDetails[detail]
	if !ok {
		kind = Unknown
	}
	return &RemoteError{Kind: kind, URL: requestURL, Detail: detail}
}
