package tgbot

import (
	botmodel "glickoserver/bot/model"

	mapset "github.com/deckarep/golang-set/v2"
)

// subscriptions keeps the user ids per event type, mirrored from the
// bot database on start.
type subscriptions map[botmodel.EventType]mapset.Set[int]

func newSubs() subscriptions {
	return make(subscriptions)
}

func (s subscriptions) Add(t botmodel.EventType, userID int) {
	set, ok := s[t]
	if !ok {
		set = mapset.NewSet[int]()
		s[t] = set
	}
	set.Add(userID)
}

func (s subscriptions) Remove(t botmodel.EventType, userID int) {
	if set, ok := s[t]; ok {
		set.Remove(userID)
	}
}

func (s subscriptions) UserIDs(t botmodel.EventType) []int {
	set, ok := s[t]
	if !ok {
		return nil
	}
	return set.ToSlice()
}
