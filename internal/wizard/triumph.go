package wizard

import "context"

// UnlockTriumphOnWizard inserts the triumph into the account's set.
// Idempotent; returns whether the account changed.
func UnlockTriumphOnWizard(w *Wizard, name string) bool {
	if w.HasTriumph(name) {
		return false
	}
	w.Triumphs = append(w.Triumphs, name)
	return true
}

// UnlockTriumph loads the account, unlocks the triumph and saves the
// account when it changed.
func (s *Service) UnlockTriumph(ctx context.Context, user int, name string) error {
	w, err := s.store.GetOrCreate(ctx, user)
	if err != nil {
		return err
	}
	if UnlockTriumphOnWizard(w, name) {
		return s.store.Save(ctx, w)
	}
	return nil
}
