package api

import "sort"

// ErrorKind is the machine-readable class of an API error.
type ErrorKind string

const (
	// KindAPI is the generic kind for unknown codes and transport failures.
	KindAPI ErrorKind = "api_error"
	// KindCredentialsNotSet means authentication was attempted without a login
	// and an account key or password. It is never sent by the server.
	KindCredentialsNotSet ErrorKind = "credentials_not_set"

	KindInvalidAPIKey        ErrorKind = "invalid_api_key"
	KindInvalidParams        ErrorKind = "invalid_params"
	KindNotEnoughParams      ErrorKind = "not_enough_params"
	KindAppWritePermissions  ErrorKind = "app_write_permissions"
	KindDailyRequestLimit    ErrorKind = "daily_request_limit"
	KindInvalidAPISign       ErrorKind = "invalid_api_sign"
	KindAppPermissions       ErrorKind = "app_permissions"
	KindSessionAppPermission ErrorKind = "session_app_permission"
	KindNotSupportedAPIKey   ErrorKind = "not_supported_api_key"
	KindInvalidUserKey       ErrorKind = "invalid_user_key"
	KindInvalidSessionKey    ErrorKind = "invalid_session_key"
	KindUserDoesNotExist     ErrorKind = "user_does_not_exist"
	KindInvalidCredentials   ErrorKind = "invalid_credentials"
	KindCredentialsMissing   ErrorKind = "credentials_missing"
	KindIPBanned             ErrorKind = "ip_banned"
	KindUserBanned           ErrorKind = "user_banned"
	KindOwnVote              ErrorKind = "own_vote"
	KindInvalidLinkID        ErrorKind = "invalid_link_id"
	KindOwnObserve           ErrorKind = "own_observe"
	KindCommentEdit          ErrorKind = "comment_edit"
	KindEntryEdit            ErrorKind = "entry_edit"
	KindRemovedLink          ErrorKind = "removed_link"
	KindPrivateLink          ErrorKind = "private_link"
	KindEntryDoesNotExist    ErrorKind = "entry_does_not_exist"
	KindEntryLimitExceeded   ErrorKind = "entry_limit_exceeded"
	KindQueryTooShort        ErrorKind = "query_too_short"
	KindCommentDoesNotExist  ErrorKind = "comment_does_not_exist"
	KindNiceTry              ErrorKind = "nice_try"
	KindUnreachableAPI       ErrorKind = "unreachable_api"
	KindNoIndex              ErrorKind = "no_index"
)

// CodeInvalidUserKey is the server code that triggers re-authentication.
const CodeInvalidUserKey = 11

// DefaultKinds maps the server's numeric error codes to kinds.
// Treat it as read-only; NewResolver copies it.
var DefaultKinds = map[int]ErrorKind{
	1:                  KindInvalidAPIKey,
	2:                  KindInvalidParams,
	3:                  KindNotEnoughParams,
	4:                  KindAppWritePermissions,
	5:                  KindDailyRequestLimit,
	6:                  KindInvalidAPISign,
	7:                  KindAppPermissions,
	8:                  KindSessionAppPermission,
	9:                  KindNotSupportedAPIKey,
	CodeInvalidUserKey: KindInvalidUserKey,
	12:                 KindInvalidSessionKey,
	13:                 KindUserDoesNotExist,
	14:                 KindInvalidCredentials,
	15:                 KindCredentialsMissing,
	17:                 KindIPBanned,
	18:                 KindUserBanned,
	31:                 KindOwnVote,
	32:                 KindInvalidLinkID,
	33:                 KindOwnObserve,
	34:                 KindCommentEdit,
	35:                 KindEntryEdit,
	41:                 KindRemovedLink,
	42:                 KindPrivateLink,
	61:                 KindEntryDoesNotExist,
	62:                 KindEntryLimitExceeded,
	71:                 KindQueryTooShort,
	81:                 KindCommentDoesNotExist,
	999:                KindNiceTry,
	1001:               KindUnreachableAPI,
	1002:               KindNoIndex,
}

// KindForCode returns the kind registered for code in DefaultKinds.
func KindForCode(code int) (ErrorKind, bool) {
	k, ok := DefaultKinds[code]
	return k, ok
}

// Codes returns the known error codes in ascending order.
func Codes() []int {
	codes := make([]int, 0, len(DefaultKinds))
	for code := range DefaultKinds {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// IsRetryable returns true if errors of this kind may succeed on a later attempt.
func (k ErrorKind) IsRetryable() bool {
	switch k {
	case KindInvalidUserKey, KindUnreachableAPI, KindNoIndex:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (k ErrorKind) Suggestion() string {
	switch k {
	case KindInvalidAPIKey, KindNotSupportedAPIKey:
		return "Check the application key"
	case KindInvalidAPISign:
		return "Check the application secret; the request signature did not match"
	case KindInvalidParams, KindNotEnoughParams:
		return "Check the request parameters"
	case KindAppWritePermissions, KindAppPermissions, KindSessionAppPermission:
		return "The application lacks permission for this action"
	case KindDailyRequestLimit:
		return "The daily request limit was reached; retry tomorrow"
	case KindInvalidUserKey, KindInvalidSessionKey:
		return "Authenticate again to obtain a fresh user key"
	case KindInvalidCredentials, KindCredentialsMissing, KindCredentialsNotSet:
		return "Provide a login and an account key or password"
	case KindIPBanned, KindUserBanned:
		return "The account or address is banned"
	case KindQueryTooShort:
		return "Use a longer search query"
	case KindUnreachableAPI, KindNoIndex:
		return "The API is temporarily unavailable; try again later"
	default:
		return ""
	}
}
