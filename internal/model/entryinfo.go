package model

import "time"

//PathInfo holds info about one file of a pair (in either source OR replica tree).
type PathInfo struct {
	Exists   bool
	FullPath string
	IsDir    bool
	Size     int64 // in bytes
	ModTime  time.Time
}

//EntryInfo holds info about the same relative path in BOTH file trees (source and replica).
type EntryInfo struct {
	SrcPathInfo, ReplicaPathInfo PathInfo
}

//Reason explains a sync decision.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonSize      Reason = "size"
	ReasonDigest    Reason = "digest"
	ReasonIdentical Reason = "identical"
)

//Decision is the per-file judgment whether the replica file must be (re-)copied. It is never persisted.
type Decision struct {
	Copy   bool
	Reason Reason
}

var (
	CopyMissing   = Decision{Copy: true, Reason: ReasonMissing}
	CopySize      = Decision{Copy: true, Reason: ReasonSize}
	CopyDigest    = Decision{Copy: true, Reason: ReasonDigest}
	SkipIdentical = Decision{Copy: false, Reason: ReasonIdentical}
)

//Precheck decides by metadata only. If ok is false, the sizes match and the contents have to be compared.
//Modification times are deliberately not part of the decision.
func (e *EntryInfo) Precheck() (d Decision, ok bool) {
	if !e.ReplicaPathInfo.Exists {
		return CopyMissing, true
	}
	if e.SrcPathInfo.Size != e.ReplicaPathInfo.Size {
		return CopySize, true
	}
	return Decision{}, false
}

//ByDigest completes a decision for two files of the same size.
func ByDigest(srcDigest, replicaDigest uint64) Decision {
	if srcDigest != replicaDigest {
		return CopyDigest
	}
	return SkipIdentical
}
