package realm

import "fmt"

// Change lines are the engine's raw record of what a command or turn did.
// Consumers render them; the engine never writes prose.

// CastleChange formats a castle field change.
func CastleChange(id CastleID, field string, from, to int) string {
	return fmt.Sprintf("castle:%s.%s %d->%d", id, field, from, to)
}

// ClanChange formats a clan treasury change as a signed delta.
func ClanChange(id ClanID, field string, delta int) string {
	return fmt.Sprintf("clan:%s.%s %+d", id, field, delta)
}

// CharacterChange formats a character field change.
func CharacterChange(id CharacterID, field string, from, to any) string {
	return fmt.Sprintf("character:%s.%s %v->%v", id, field, from, to)
}

// OwnerChange formats a castle changing hands.
func OwnerChange(id CastleID, from, to ClanID) string {
	return fmt.Sprintf("castle:%s.owner %s->%s", id, from, to)
}

// RelationChange formats a relation update.
func RelationChange(a, b ClanID, typ RelationType, expires int) string {
	a, b = orderPair(a, b)
	if expires > 0 {
		return fmt.Sprintf("relation:%s/%s %s until %d", a, b, typ, expires)
	}
	return fmt.Sprintf("relation:%s/%s %s", a, b, typ)
}
