package model

import "slices"

// Action is an enumerated primary or secondary action code. Values are the
// codes used by the match-report extraction, so source records map 1:1.
type Action string

// Scoring and build-up actions.
const (
	ActionGoal          Action = "Mål"
	ActionPenaltyGoal   Action = "Mål på straffe"
	ActionAssist        Action = "Assist"
	ActionSteal         Action = "Bold erobret"
	ActionBlock         Action = "Blok af (ret)"
	ActionBlockedBy     Action = "Blokeret af"
	ActionPenaltyDrawn  Action = "Tilkendt straffe"
	ActionRebound       Action = "Retur"
	ActionPenaltyCaused Action = "Forårs. str."
)

// Save-type and shot outcome actions.
const (
	ActionSave            Action = "Skud reddet"
	ActionPenaltySave     Action = "Straffekast reddet"
	ActionPost            Action = "Skud på stolpe"
	ActionPenaltyPost     Action = "Straffekast på stolpe"
	ActionShotBlocked     Action = "Skud blokeret"
	ActionMiss            Action = "Skud forbi"
	ActionPenaltyMiss     Action = "Straffekast forbi"
	ActionPassivePlay     Action = "Passivt spil"
	ActionTechnicalFault  Action = "Regelfejl"
	ActionLostBall        Action = "Tabt bold"
	ActionBadPass         Action = "Fejlaflevering"
	ActionWarning         Action = "Advarsel"
	ActionSuspension      Action = "Udvisning"
	ActionSuspensionTwice Action = "Udvisning (2x)"
	ActionBlueCard        Action = "Blåt kort"
	ActionRedCard         Action = "Rødt kort"
	ActionDirectRedCard   Action = "Rødt kort direkte"
	ActionProtest         Action = "Protest"
)

// Administrative actions. Phase markers carry no player information.
const (
	ActionTimeout        Action = "Time out"
	ActionStart          Action = "Start"
	ActionFirstHalf      Action = "Start 1:e halvleg"
	ActionHalfTime       Action = "Halvleg"
	ActionSecondHalf     Action = "Start 2:e halvleg"
	ActionFullTime       Action = "Fuld tid"
	ActionMatchEnd       Action = "Kamp slut"
	ActionVideoProof     Action = "Video Proof"
	ActionVideoProofDone Action = "Video Proof slut"
)

// ActionClass buckets actions by their sign for context scoring.
type ActionClass int

// Action classes.
const (
	ClassNeutral ActionClass = iota
	ClassPositive
	ClassNegative
	ClassAdministrative
)

func (c ActionClass) String() string {
	switch c {
	case ClassPositive:
		return "positive"
	case ClassNegative:
		return "negative"
	case ClassAdministrative:
		return "administrative"
	default:
		return "neutral"
	}
}

// SecondaryKind says which team a secondary player belongs to.
type SecondaryKind int

// Secondary action categories.
const (
	// SecondaryIgnored secondary actions are not attributed to anyone.
	SecondaryIgnored SecondaryKind = iota
	// SecondaryCooperative attributes to the acting team.
	SecondaryCooperative
	// SecondaryAdversarial attributes to the opposite team.
	SecondaryAdversarial
)

// Severity grades negative actions for critical-error detection.
type Severity int

// Severities, lowest first.
const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityTurnover
	SeverityDiscipline
)

// ActionInfo is the static catalog entry of an action.
type ActionInfo struct {
	Class       ActionClass
	Secondary   SecondaryKind
	Save        bool
	Goal        bool
	PhaseMarker bool
	Severity    Severity
}

var catalog = map[Action]ActionInfo{ //nolint:gochecknoglobals // static catalog
	ActionGoal:          {Class: ClassPositive, Goal: true},
	ActionPenaltyGoal:   {Class: ClassPositive, Goal: true},
	ActionAssist:        {Class: ClassPositive, Secondary: SecondaryCooperative},
	ActionSteal:         {Class: ClassPositive, Secondary: SecondaryAdversarial},
	ActionBlock:         {Class: ClassPositive, Secondary: SecondaryAdversarial},
	ActionBlockedBy:     {Class: ClassPositive, Secondary: SecondaryAdversarial},
	ActionPenaltyDrawn:  {Class: ClassPositive},
	ActionRebound:       {Class: ClassPositive},
	ActionPenaltyCaused: {Class: ClassNegative, Secondary: SecondaryAdversarial, Severity: SeverityTurnover},

	ActionSave:            {Class: ClassPositive, Save: true},
	ActionPenaltySave:     {Class: ClassPositive, Save: true},
	ActionPost:            {Class: ClassNeutral},
	ActionPenaltyPost:     {Class: ClassNeutral},
	ActionShotBlocked:     {Class: ClassNeutral},
	ActionMiss:            {Class: ClassNegative},
	ActionPenaltyMiss:     {Class: ClassNegative},
	ActionPassivePlay:     {Class: ClassNegative, Severity: SeverityMinor},
	ActionTechnicalFault:  {Class: ClassNegative, Severity: SeverityMinor},
	ActionLostBall:        {Class: ClassNegative, Severity: SeverityTurnover},
	ActionBadPass:         {Class: ClassNegative, Severity: SeverityTurnover},
	ActionWarning:         {Class: ClassNegative},
	ActionSuspension:      {Class: ClassNegative, Severity: SeverityDiscipline},
	ActionSuspensionTwice: {Class: ClassNegative, Severity: SeverityDiscipline},
	ActionBlueCard:        {Class: ClassNegative, Severity: SeverityDiscipline},
	ActionRedCard:         {Class: ClassNegative, Severity: SeverityDiscipline},
	ActionDirectRedCard:   {Class: ClassNegative, Severity: SeverityDiscipline},
	ActionProtest:         {Class: ClassNeutral},

	ActionTimeout:        {Class: ClassAdministrative},
	ActionStart:          {Class: ClassAdministrative, PhaseMarker: true},
	ActionFirstHalf:      {Class: ClassAdministrative, PhaseMarker: true},
	ActionHalfTime:       {Class: ClassAdministrative, PhaseMarker: true},
	ActionSecondHalf:     {Class: ClassAdministrative, PhaseMarker: true},
	ActionFullTime:       {Class: ClassAdministrative, PhaseMarker: true},
	ActionMatchEnd:       {Class: ClassAdministrative, PhaseMarker: true},
	ActionVideoProof:     {Class: ClassAdministrative},
	ActionVideoProofDone: {Class: ClassAdministrative},
}

// Info returns the catalog entry for a. Unknown codes report ok=false and a
// neutral entry.
func (a Action) Info() (ActionInfo, bool) {
	info, ok := catalog[a]
	return info, ok
}

// Known reports whether a is in the catalog.
func (a Action) Known() bool {
	_, ok := catalog[a]
	return ok
}

// IsSave reports whether a is a save-type action.
func (a Action) IsSave() bool { return catalog[a].Save }

// IsGoal reports whether a is a scoring action.
func (a Action) IsGoal() bool { return catalog[a].Goal }

// IsPhaseMarker reports whether a only marks a match phase.
func (a Action) IsPhaseMarker() bool { return catalog[a].PhaseMarker }

// KnownActions returns every catalog action code in a stable order.
func KnownActions() []Action {
	out := make([]Action, 0, len(catalog))
	for a := range catalog {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}
