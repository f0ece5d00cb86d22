// Package audit is the read side of the ownership ledger. It answers the
// questions people actually ask of an audit trail — what happened to this
// entry, what has this person changed, what changed last week — without
// exposing any way to alter the records it reads.
package audit
