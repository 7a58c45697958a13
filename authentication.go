package qauth

import "context"

// Password carries a login password in either plaintext or pre-hashed MD5
// form. The zero value is an empty plaintext password.
type Password struct {
	plaintext string
	digest    [16]byte
	hashed    bool
}

// PlainPassword wraps a UTF-8 plaintext password.
func PlainPassword(s string) Password {
	return Password{plaintext: s}
}

// MD5Password wraps a 16-byte pre-hashed password digest.
func MD5Password(digest [16]byte) Password {
	return Password{digest: digest, hashed: true}
}

// IsMD5 reports whether the password is carried as a pre-hashed digest.
func (p Password) IsMD5() bool {
	return p.hashed
}

// Plaintext returns the plaintext form. Valid only when IsMD5 is false.
func (p Password) Plaintext() string {
	return p.plaintext
}

// MD5 returns the digest form. Valid only when IsMD5 is true.
func (p Password) MD5() [16]byte {
	return p.digest
}

// UinPasswordSupplier produces a uin and plaintext password on demand,
// typically by prompting a human or querying an external secret source.
// Both calls may block for unbounded wall-clock time and must honor ctx.
type UinPasswordSupplier interface {
	Uin(ctx context.Context) (int64, error)
	Password(ctx context.Context) (string, error)
}

// UinPasswordMD5Supplier produces a uin and pre-hashed password digest on
// demand. A supplier instance provides exactly one of the two password
// forms; the two interfaces are deliberately not unified.
type UinPasswordMD5Supplier interface {
	Uin(ctx context.Context) (int64, error)
	PasswordMD5(ctx context.Context) ([16]byte, error)
}

// DecisionFunc inspects the live, already-connected handle and returns the
// selection to execute, including possibly Abandon. The engine re-evaluates
// a returned CallBack selection at most once; a further CallBack result
// fails the attempt with [ErrDecisionLoop].
type DecisionFunc func(conn Connection) Authentication

type authKind uint8

const (
	authQRCode authKind = iota
	authUinPassword
	authCustomUinPassword
	authCustomUinPasswordMD5
	authCallBack
	authAbandon
)

// Authentication selects the login strategy for one attempt. Exactly one
// strategy is active per value; construct values through [QRCode],
// [UinPassword], [UinPasswordMD5], [CustomUinPassword],
// [CustomUinPasswordMD5], [CallBack], or [Abandon].
//
// Authentication values are immutable and safe to share across goroutines,
// including callback-bearing selections: the callback or supplier is held
// behind the value and invoked only by the goroutine running the attempt.
type Authentication struct {
	kind        authKind
	uin         int64
	password    Password
	supplier    UinPasswordSupplier
	supplierMD5 UinPasswordMD5Supplier
	decide      DecisionFunc
}

// QRCode selects a credential-free login: the server issues a scannable
// token and the user confirms on another device.
func QRCode() Authentication {
	return Authentication{kind: authQRCode}
}

// UinPassword selects a plaintext password login.
func UinPassword(uin int64, password string) Authentication {
	return Authentication{
		kind:     authUinPassword,
		uin:      uin,
		password: PlainPassword(password),
	}
}

// UinPasswordMD5 selects a pre-hashed password login.
func UinPasswordMD5(uin int64, digest [16]byte) Authentication {
	return Authentication{
		kind:     authUinPassword,
		uin:      uin,
		password: MD5Password(digest),
	}
}

// CustomUinPassword selects a login whose uin and plaintext password are
// produced by the supplier when the attempt runs.
func CustomUinPassword(s UinPasswordSupplier) Authentication {
	return Authentication{kind: authCustomUinPassword, supplier: s}
}

// CustomUinPasswordMD5 selects a login whose uin and password digest are
// produced by the supplier when the attempt runs.
func CustomUinPasswordMD5(s UinPasswordMD5Supplier) Authentication {
	return Authentication{kind: authCustomUinPasswordMD5, supplierMD5: s}
}

// CallBack defers strategy selection until the connection is live: fn is
// invoked with the connection handle and returns the selection to execute.
func CallBack(fn DecisionFunc) Authentication {
	return Authentication{kind: authCallBack, decide: fn}
}

// Abandon gives up the attempt immediately, with no network activity.
func Abandon() Authentication {
	return Authentication{kind: authAbandon}
}

// IsAbandon reports whether the selection is the terminal Abandon strategy.
func (a Authentication) IsAbandon() bool {
	return a.kind == authAbandon
}
