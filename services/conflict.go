package services

// CheckVersion is the conflict gate run before a version-checked mutation is
// applied. It is pure: the caller loads the stored version, passes the
// client-submitted one, and gets a go / no-go decision.
//
//   - clientVersion == nil: the caller did not opt into conflict checking
//     (programmatic callers, fresh reads) and proceeds unconditionally.
//   - matching versions proceed.
//   - forceOverwrite proceeds regardless of mismatch: the caller explicitly
//     asserts precedence over the stored record.
//
// Anything else is a conflict and no mutation may be applied.
func CheckVersion(serverVersion int64, clientVersion *int64, forceOverwrite bool) bool {
	if clientVersion == nil {
		return true
	}
	if forceOverwrite {
		return true
	}
	return *clientVersion == serverVersion
}
