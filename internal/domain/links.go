package domain

import "slices"

// A photo–album link is either present or absent, and transitions only
// through album create/update/delete and photo delete. DiffIDs computes the
// two set differences an album update needs to keep both sides of the
// mapping in sync: ids to unlink (in old but not new) and ids to link (in
// new but not old).
//
// Order within each result follows the order of the input slice it was
// drawn from. Duplicate ids in the inputs are not expected and not
// deduplicated.
func DiffIDs(oldIDs, newIDs []int) (added, removed []int) {
	for _, id := range newIDs {
		if !slices.Contains(oldIDs, id) {
			added = append(added, id)
		}
	}
	for _, id := range oldIDs {
		if !slices.Contains(newIDs, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
