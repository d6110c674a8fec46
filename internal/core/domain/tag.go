package domain

// Tag is one label from the closed intent enumeration. Every pattern rule,
// training example, and classification result references only these values.
type Tag string

const (
	TagApplicationProcedure Tag = "namjari_application_procedure"
	TagEligibility          Tag = "namjari_eligibility"
	TagByRepresentative     Tag = "namjari_by_representative"
	TagRequiredDocuments    Tag = "namjari_required_documents"
	TagInheritanceDocuments Tag = "namjari_inheritance_documents"
	TagFee                  Tag = "namjari_fee"
	TagHearingNotification  Tag = "namjari_hearing_notification"
	TagHearingDocuments     Tag = "namjari_hearing_documents"
	TagStatusCheck          Tag = "namjari_status_check"
	TagRejectedAppeal       Tag = "namjari_rejected_appeal"
	TagKhatianCopy          Tag = "namjari_khatian_copy"
	TagKhatianCorrection    Tag = "namjari_khatian_correction"
	TagProcess              Tag = "namjari_process"

	TagRepeatAgain  Tag = "repeat_again"
	TagAgentCalling Tag = "agent_calling"
	TagGoodbye      Tag = "goodbye"
	TagGreetings    Tag = "greetings"
	TagIrrelevant   Tag = "irrelevant"
)

var allTags = []Tag{
	TagApplicationProcedure,
	TagEligibility,
	TagByRepresentative,
	TagRequiredDocuments,
	TagInheritanceDocuments,
	TagFee,
	TagHearingNotification,
	TagHearingDocuments,
	TagStatusCheck,
	TagRejectedAppeal,
	TagKhatianCopy,
	TagKhatianCorrection,
	TagProcess,
	TagRepeatAgain,
	TagAgentCalling,
	TagGoodbye,
	TagGreetings,
	TagIrrelevant,
}

var tagSet = func() map[Tag]struct{} {
	set := make(map[Tag]struct{}, len(allTags))
	for _, tag := range allTags {
		set[tag] = struct{}{}
	}
	return set
}()

// AllTags returns the enumeration in declaration order.
func AllTags() []Tag {
	out := make([]Tag, len(allTags))
	copy(out, allTags)
	return out
}

func IsValidTag(tag Tag) bool {
	_, ok := tagSet[tag]
	return ok
}
