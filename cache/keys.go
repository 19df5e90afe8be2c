package cache

// Logical resource names, one per backend table the portal watches.
const (
	ResourcePlayers         = "players"
	ResourceStaff           = "staff"
	ResourceTables          = "tables"
	ResourceWaitlist        = "waitlist"
	ResourceTournaments     = "tournaments"
	ResourceTransactions    = "transactions"
	ResourceBuyInRequests   = "buyin_requests"
	ResourceCashOutRequests = "cashout_requests"
	ResourceCredits         = "credits"
	ResourceLeaves          = "leaves"
	ResourceChats           = "chats"
	ResourceNotifications   = "notifications"
	ResourceRake            = "rake"
)

// Canonical keys for the club-scoped list queries every dashboard shares.

func PlayersKey(clubID string) Key {
	return Key{Resource: ResourcePlayers, ClubID: clubID}
}

func StaffKey(clubID string) Key {
	return Key{Resource: ResourceStaff, ClubID: clubID}
}

func TablesKey(clubID string) Key {
	return Key{Resource: ResourceTables, ClubID: clubID}
}

func WaitlistKey(clubID, tableID string) Key {
	return Key{Resource: ResourceWaitlist, ClubID: clubID, Params: tableID}
}

func TournamentsKey(clubID string) Key {
	return Key{Resource: ResourceTournaments, ClubID: clubID}
}

func TransactionsKey(clubID string) Key {
	return Key{Resource: ResourceTransactions, ClubID: clubID}
}

func PendingBuyInsKey(clubID string) Key {
	return Key{Resource: ResourceBuyInRequests, ClubID: clubID, Params: "pending"}
}

func PendingCashOutsKey(clubID string) Key {
	return Key{Resource: ResourceCashOutRequests, ClubID: clubID, Params: "pending"}
}

func CreditsKey(clubID string) Key {
	return Key{Resource: ResourceCredits, ClubID: clubID}
}

func LeavesKey(clubID string) Key {
	return Key{Resource: ResourceLeaves, ClubID: clubID}
}

func ChatsKey(clubID string) Key {
	return Key{Resource: ResourceChats, ClubID: clubID}
}

func NotificationsKey(clubID string) Key {
	return Key{Resource: ResourceNotifications, ClubID: clubID}
}

func UnreadCountKey(clubID string) Key {
	return Key{Resource: ResourceNotifications, ClubID: clubID, Params: "unread"}
}

func RakeKey(clubID, tableID string) Key {
	return Key{Resource: ResourceRake, ClubID: clubID, Params: tableID}
}
