package access

// Action identifies one operation in the access-control catalog. Every
// guarded read or write on groups, topics, and comments is named here so the
// policy layer can be a single table instead of per-handler boolean soup.
type Action string

const (
	// Reads.
	ActionViewGroupContent Action = "view_group_content"
	ActionViewBanRoster    Action = "view_ban_roster"
	ActionViewJoinRequests Action = "view_join_requests"

	// Content writes.
	ActionCreateTopic   Action = "create_topic"
	ActionEditTopic     Action = "edit_topic"
	ActionDeleteTopic   Action = "delete_topic"
	ActionCloseTopic    Action = "close_topic"
	ActionCreateComment Action = "create_comment"
	ActionEditComment   Action = "edit_comment"
	ActionDeleteComment Action = "delete_comment"

	// Membership mutations.
	ActionRequestJoin       Action = "request_join"
	ActionCancelJoinRequest Action = "cancel_join_request"
	ActionAcceptJoinRequest Action = "accept_join_request"
	ActionDenyJoinRequest   Action = "deny_join_request"
	ActionAddMember         Action = "add_member"
	ActionRemoveMember      Action = "remove_member"
	ActionLeaveGroup        Action = "leave_group"
	ActionPromoteModerator  Action = "promote_moderator"
	ActionDemoteModerator   Action = "demote_moderator"
	ActionBanMember         Action = "ban_member"
	ActionUnbanMember       Action = "unban_member"

	// Group administration.
	ActionUpdateGroupSettings Action = "update_group_settings"
	ActionDeleteGroup         Action = "delete_group"
)

// IsMembershipMutation reports whether the action changes a membership
// status (and therefore goes through the state machine on allow).
func (a Action) IsMembershipMutation() bool {
	switch a {
	case ActionRequestJoin, ActionCancelJoinRequest, ActionAcceptJoinRequest,
		ActionDenyJoinRequest, ActionAddMember, ActionRemoveMember,
		ActionLeaveGroup, ActionPromoteModerator, ActionDemoteModerator,
		ActionBanMember, ActionUnbanMember:
		return true
	}
	return false
}
