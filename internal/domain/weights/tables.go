package weights

import m "github.com/okian/hbelo/internal/domain/model"

// Name and version of the built-in tables.
const (
	MasterName    = "master"
	MasterVersion = "v1"
)

func masterBase() map[m.Action]float64 {
	return map[m.Action]float64{
		m.ActionGoal:          65,
		m.ActionAssist:        55,
		m.ActionPenaltyGoal:   60,
		m.ActionSteal:         40,
		m.ActionBlock:         35,
		m.ActionBlockedBy:     30,
		m.ActionPenaltyDrawn:  25,
		m.ActionRebound:       20,
		m.ActionPenaltyCaused: -35,

		m.ActionSave:        45,
		m.ActionPenaltySave: 65,

		m.ActionPost:            -5,
		m.ActionPenaltyPost:     -10,
		m.ActionShotBlocked:     -8,
		m.ActionMiss:            -15,
		m.ActionPenaltyMiss:     -25,
		m.ActionPassivePlay:     -20,
		m.ActionTechnicalFault:  -22,
		m.ActionLostBall:        -25,
		m.ActionBadPass:         -30,
		m.ActionWarning:         -15,
		m.ActionSuspension:      -45,
		m.ActionSuspensionTwice: -75,
		m.ActionBlueCard:        -60,
		m.ActionRedCard:         -90,
		m.ActionDirectRedCard:   -90,
		m.ActionProtest:         -20,

		m.ActionTimeout:        0,
		m.ActionStart:          0,
		m.ActionFirstHalf:      0,
		m.ActionHalfTime:       0,
		m.ActionSecondHalf:     0,
		m.ActionFullTime:       0,
		m.ActionMatchEnd:       0,
		m.ActionVideoProof:     0,
		m.ActionVideoProofDone: 0,
	}
}

// Weights for the player named in the goalkeeper field. A goal against is a
// penalty, a shot off the post is credited.
func masterConceding() map[m.Action]float64 {
	return map[m.Action]float64{
		m.ActionGoal:        -25,
		m.ActionPenaltyGoal: -30,
		m.ActionPost:        15,
		m.ActionPenaltyPost: 20,
	}
}

func masterRoles() map[m.Role]RoleTable {
	wing := RoleTable{Default: 1.0, Actions: map[m.Action]float64{
		m.ActionGoal: 1.3, m.ActionSteal: 1.4, m.ActionRebound: 1.2, m.ActionAssist: 1.0,
		m.ActionPenaltyDrawn: 1.1, m.ActionMiss: 1.1, m.ActionPenaltyMiss: 1.0, m.ActionShotBlocked: 1.0,
	}}
	back := RoleTable{Default: 0.7, Actions: map[m.Action]float64{
		m.ActionSteal: 1.0, m.ActionBlockedBy: 0.8, m.ActionBlock: 0.8, m.ActionAssist: 0.8,
		m.ActionPenaltyDrawn: 0.7, m.ActionBadPass: 1.5, m.ActionLostBall: 1.4,
		m.ActionPenaltyCaused: 1.4, m.ActionGoal: 0.7,
	}}
	return map[m.Role]RoleTable{
		m.RoleGoalkeeper: {Default: 1.2, Actions: map[m.Action]float64{
			m.ActionSave: 2.2, m.ActionPenaltySave: 2.8, m.ActionPost: 1.8, m.ActionPenaltyPost: 2.2,
			m.ActionGoal: 2.0, m.ActionAssist: 1.5, m.ActionSteal: 1.3,
			m.ActionBadPass: 0.8, m.ActionLostBall: 0.8, m.ActionTechnicalFault: 0.9,
		}},
		m.RoleLeftWing:  wing.clone(),
		m.RoleRightWing: wing.clone(),
		m.RoleLeftBack:  back.clone(),
		m.RoleRightBack: back.clone(),
		m.RoleCentreBack: {Default: 0.65, Actions: map[m.Action]float64{
			m.ActionAssist: 1.0, m.ActionPenaltyDrawn: 0.8, m.ActionSteal: 0.8, m.ActionGoal: 0.7,
			m.ActionBadPass: 1.6, m.ActionLostBall: 1.5, m.ActionPenaltyCaused: 1.4,
			m.ActionTechnicalFault: 1.4, m.ActionPassivePlay: 1.3,
		}},
		m.RolePivot: {Default: 0.85, Actions: map[m.Action]float64{
			m.ActionGoal: 1.0, m.ActionSteal: 0.9, m.ActionPenaltyDrawn: 0.8, m.ActionBlockedBy: 0.8,
			m.ActionBlock: 0.8, m.ActionSuspension: 1.0, m.ActionTechnicalFault: 1.0,
			m.ActionPenaltyCaused: 1.0, m.ActionAssist: 0.7,
		}},
	}
}
