// Package repository holds the templates and battle squaddies of one battle.
package repository

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pefman/hex-tactics/internal/models"
)

var (
	ErrSquaddieNotFound         = errors.New("squaddie not found")
	ErrSquaddieTemplateNotFound = errors.New("squaddie template not found")
	ErrActionTemplateNotFound   = errors.New("action template not found")
	ErrDuplicateID              = errors.New("id already registered")
)

// ObjectRepository indexes squaddie templates, battle squaddies and action
// templates by id. It is not safe for concurrent use; callers own the locking.
type ObjectRepository struct {
	squaddieTemplates map[string]*models.SquaddieTemplate
	battleSquaddies   map[string]*models.BattleSquaddie
	actionTemplates   map[string]*models.ActionEffectSquaddieTemplate
	battleOrder       []string
}

func New() *ObjectRepository {
	return &ObjectRepository{
		squaddieTemplates: make(map[string]*models.SquaddieTemplate),
		battleSquaddies:   make(map[string]*models.BattleSquaddie),
		actionTemplates:   make(map[string]*models.ActionEffectSquaddieTemplate),
	}
}

func (r *ObjectRepository) AddSquaddieTemplate(t *models.SquaddieTemplate) error {
	if t == nil {
		return errors.New("nil squaddie template")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := r.squaddieTemplates[t.SquaddieTemplateID]; ok {
		return fmt.Errorf("squaddie template %q: %w", t.SquaddieTemplateID, ErrDuplicateID)
	}
	r.squaddieTemplates[t.SquaddieTemplateID] = t
	return nil
}

// AddActionTemplate sanitizes the template before storing it.
func (r *ObjectRepository) AddActionTemplate(t *models.ActionEffectSquaddieTemplate) error {
	if t == nil {
		return errors.New("nil action template")
	}
	if err := t.Sanitize(); err != nil {
		return err
	}
	if _, ok := r.actionTemplates[t.ID]; ok {
		return fmt.Errorf("action template %q: %w", t.ID, ErrDuplicateID)
	}
	r.actionTemplates[t.ID] = t
	return nil
}

// AddBattleSquaddie requires the squaddie's template to be registered first.
func (r *ObjectRepository) AddBattleSquaddie(b *models.BattleSquaddie) error {
	if b == nil || b.BattleSquaddieID == "" {
		return errors.New("battle squaddie has no id")
	}
	if _, ok := r.squaddieTemplates[b.SquaddieTemplateID]; !ok {
		return fmt.Errorf("battle squaddie %q uses %q: %w", b.BattleSquaddieID, b.SquaddieTemplateID, ErrSquaddieTemplateNotFound)
	}
	if _, ok := r.battleSquaddies[b.BattleSquaddieID]; ok {
		return fmt.Errorf("battle squaddie %q: %w", b.BattleSquaddieID, ErrDuplicateID)
	}
	r.battleSquaddies[b.BattleSquaddieID] = b
	r.battleOrder = append(r.battleOrder, b.BattleSquaddieID)
	return nil
}

// GetSquaddieByBattleId returns the battle squaddie and its template.
func (r *ObjectRepository) GetSquaddieByBattleId(battleSquaddieID string) (*models.SquaddieTemplate, *models.BattleSquaddie, error) {
	battle, ok := r.battleSquaddies[battleSquaddieID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrSquaddieNotFound, battleSquaddieID)
	}
	template, ok := r.squaddieTemplates[battle.SquaddieTemplateID]
	if !ok {
		return nil, nil, fmt.Errorf("battle squaddie %q: %w: %q", battleSquaddieID, ErrSquaddieTemplateNotFound, battle.SquaddieTemplateID)
	}
	return template, battle, nil
}

func (r *ObjectRepository) GetSquaddieTemplate(squaddieTemplateID string) (*models.SquaddieTemplate, error) {
	t, ok := r.squaddieTemplates[squaddieTemplateID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSquaddieTemplateNotFound, squaddieTemplateID)
	}
	return t, nil
}

func (r *ObjectRepository) GetActionTemplateById(actionTemplateID string) (*models.ActionEffectSquaddieTemplate, error) {
	t, ok := r.actionTemplates[actionTemplateID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrActionTemplateNotFound, actionTemplateID)
	}
	return t, nil
}

// ActionTemplatesForSquaddie resolves the template's action ids in order.
func (r *ObjectRepository) ActionTemplatesForSquaddie(squaddieTemplateID string) ([]*models.ActionEffectSquaddieTemplate, error) {
	t, err := r.GetSquaddieTemplate(squaddieTemplateID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.ActionEffectSquaddieTemplate, 0, len(t.ActionTemplateIDs))
	for _, id := range t.ActionTemplateIDs {
		a, err := r.GetActionTemplateById(id)
		if err != nil {
			return nil, fmt.Errorf("squaddie template %q: %w", squaddieTemplateID, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// BattleSquaddieIDs lists battle squaddies in the order they were added.
func (r *ObjectRepository) BattleSquaddieIDs() []string {
	return append([]string(nil), r.battleOrder...)
}

// ActionTemplateIDs lists action template ids sorted.
func (r *ObjectRepository) ActionTemplateIDs() []string {
	ids := make([]string, 0, len(r.actionTemplates))
	for id := range r.actionTemplates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
