package litt

import "github.com/georgbuechner/litt/internal/errs"

// Kind identifies the category of an Error.
type Kind = errs.Kind

// Error is the single error type litt returns across its public surface. It
// carries a Kind so callers can branch on error category with
// errors.Is(err, litt.ErrState) instead of string matching.
type Error = errs.Error

const (
	KindOther    = errs.KindOther
	KindCreation = errs.KindCreation
	KindOpen     = errs.KindOpen
	KindWrite    = errs.KindWrite
	KindRead     = errs.KindRead
	KindReload   = errs.KindReload
	KindUpdate   = errs.KindUpdate
	KindState    = errs.KindState
	KindPdfParse = errs.KindPdfParse
	KindTxtParse = errs.KindTxtParse
)

// Sentinels for errors.Is checks, e.g. errors.Is(err, litt.ErrState).
var (
	ErrCreation = errs.ErrCreation
	ErrOpen     = errs.ErrOpen
	ErrWrite    = errs.ErrWrite
	ErrRead     = errs.ErrRead
	ErrReload   = errs.ErrReload
	ErrUpdate   = errs.ErrUpdate
	ErrState    = errs.ErrState
	ErrPdfParse = errs.ErrPdfParse
	ErrTxtParse = errs.ErrTxtParse
)
