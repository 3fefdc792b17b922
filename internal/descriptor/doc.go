// Package descriptor loads and validates asset issuance descriptors.
//
// A descriptor is a CUE file declaring what an issuer wants to bring
// into existence: the asset kind, its naming metadata, precision or
// fractions cap, and the initial allocations. Descriptors are checked
// against an embedded CUE schema first and against kind-specific rules
// second, then compiled into the genesis operation the verifiers judge.
//
// The descriptor layer is pure data assembly: it never decides
// admissibility. A descriptor that compiles can still produce a genesis
// the verifier rejects (for example a supply that does not match the
// allocations), and that rejection is the authoritative one.
package descriptor
