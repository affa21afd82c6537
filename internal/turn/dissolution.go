package turn

// processDissolution removes clans left without castles.
func (r *resolver) processDissolution() error {
	for _, id := range r.s.ClanIDs() {
		if len(r.s.Clans[id].CastleIDs) > 0 {
			continue
		}
		if err := r.s.DissolveClan(id); err != nil {
			return err
		}
		r.rep.Dissolved = append(r.rep.Dissolved, id)
		r.note("clan:" + string(id) + " dissolved")
	}
	return nil
}
