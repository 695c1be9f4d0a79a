package models

// CaseID identifies one micro-workload measured identically across runtimes.
// IDs are stable string keys: history snapshots reference them, so existing
// IDs must never be renamed. New cases may be appended.
type CaseID string

const (
	CaseLoop          CaseID = "loop"
	CaseDict          CaseID = "dict"
	CaseDictIntKey    CaseID = "dict-intkey"
	CaseDictHot       CaseID = "dict-hot"
	CaseString        CaseID = "string"
	CaseStringBuilder CaseID = "string-builder"
	CaseStructMethod  CaseID = "struct-method"
	CaseFuncCall      CaseID = "func-call"
	CaseBranchHeavy   CaseID = "branch-heavy"
	CaseTryCatch      CaseID = "try-catch"
	CaseListPushPop   CaseID = "list-push-pop"
	CaseDictMiss      CaseID = "dict-miss"
	CaseDictUpdateHot CaseID = "dict-update-hot"
	CaseStringUnicode CaseID = "string-unicode"
	CaseStringScan    CaseID = "string-scan"
)

// CaseOrder is the canonical display order for report tables.
var CaseOrder = []CaseID{
	CaseLoop,
	CaseDict,
	CaseDictIntKey,
	CaseDictHot,
	CaseString,
	CaseStringBuilder,
	CaseStructMethod,
	CaseFuncCall,
	CaseBranchHeavy,
	CaseTryCatch,
	CaseListPushPop,
	CaseDictMiss,
	CaseDictUpdateHot,
	CaseStringUnicode,
	CaseStringScan,
}

// caseLabels maps case IDs to human-readable descriptions.
var caseLabels = map[CaseID]string{
	CaseLoop:          "Loop overhead",
	CaseDict:          "Dict insert/get (str)",
	CaseDictIntKey:    "Dict insert/get (int)",
	CaseDictHot:       "Dict hot access",
	CaseString:        "String concat",
	CaseStringBuilder: "StringBuilder",
	CaseStructMethod:  "Struct method call",
	CaseFuncCall:      "Function call",
	CaseBranchHeavy:   "Branch heavy",
	CaseTryCatch:      "Try-catch overhead",
	CaseListPushPop:   "List push/pop",
	CaseDictMiss:      "Dict miss",
	CaseDictUpdateHot: "Dict update hot",
	CaseStringUnicode: "String unicode",
	CaseStringScan:    "String scan",
}

// Known reports whether the case is part of the enumeration this binary
// was built with.
func (c CaseID) Known() bool {
	_, ok := caseLabels[c]
	return ok
}

// Label returns the human-readable description for a case, or the raw ID
// for cases added after this binary was built.
func (c CaseID) Label() string {
	if l, ok := caseLabels[c]; ok {
		return l
	}
	return string(c)
}

// RuntimeID identifies a language implementation under comparison. One
// runtime is the subject under test; the others are fixed calibration
// baselines. The set is closed at configuration time.
type RuntimeID string

// DefaultTrackedCases are the cases the regression gate watches unless
// the suite configures its own list.
var DefaultTrackedCases = []CaseID{
	CaseDict,
	CaseDictHot,
	CaseStringBuilder,
	CaseStringScan,
}
