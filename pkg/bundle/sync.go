package bundle

// SyncStats counts the entry changes applied by Sync.
type SyncStats struct {
	Added    int
	Modified int
	Removed  int
}

// Changed reports whether Sync applied any change.
func (s SyncStats) Changed() bool {
	return s.Added+s.Modified+s.Removed > 0
}

// Sync makes g hold exactly the entries of src, one entry mutation at a
// time, so subscribers see ordinary add/modify/remove notifications rather
// than a reload. Bundles missing from src are emptied but kept.
func (g *Group) Sync(src *Group) SyncStats {
	var stats SyncStats
	for _, sb := range src.Bundles() {
		b := g.AddBundle(sb.locale)
		for _, key := range sb.Keys() {
			want := sb.entries[key]
			want.Locale = b.locale
			have, ok := b.entries[key]
			switch {
			case !ok:
				b.Put(want)
				stats.Added++
			case have != want:
				b.Put(want)
				stats.Modified++
			}
		}
	}
	for _, b := range g.Bundles() {
		sb, ok := src.bundles[b.locale.String()]
		for _, key := range b.Keys() {
			if ok {
				if _, keep := sb.entries[key]; keep {
					continue
				}
			}
			b.Remove(key)
			stats.Removed++
		}
	}
	return stats
}
