package usecase

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/browsing/domain"
)

// Navigator is the view state machine of a session. It is not safe for
// concurrent use; Session serialises access to it.
type Navigator struct {
	view       domain.View
	lastGrid   domain.View
	selectedID string
}

func NewNavigator() *Navigator {
	return &Navigator{view: domain.ViewListing, lastGrid: domain.ViewListing}
}

func (n *Navigator) View() domain.View {
	return n.view
}

// LastGrid is the grid view that Back returns to.
func (n *Navigator) LastGrid() domain.View {
	return n.lastGrid
}

// SelectedID is empty unless the view is detail.
func (n *Navigator) SelectedID() string {
	return n.selectedID
}

// Select enters detail for propertyID. Selecting from detail replaces the
// property but keeps the remembered grid.
func (n *Navigator) Select(propertyID string) domain.Transition {
	from := n.view
	if from.IsGrid() {
		n.lastGrid = from
	}
	n.view = domain.ViewDetail
	n.selectedID = propertyID
	return domain.Transition{From: from, To: domain.ViewDetail, ScrollToTop: true}
}

// Back leaves detail for the grid it was entered from. Outside detail it
// is a no-op transition.
func (n *Navigator) Back() domain.Transition {
	from := n.view
	if from != domain.ViewDetail {
		return domain.Transition{From: from, To: from}
	}
	n.view = n.lastGrid
	n.selectedID = ""
	return domain.Transition{From: from, To: n.view}
}

// Show jumps straight to a grid view and clears any selection.
func (n *Navigator) Show(v domain.View) (domain.Transition, error) {
	if !v.IsGrid() {
		return domain.Transition{}, fmt.Errorf("%w: %q", domain.ErrInvalidView, v)
	}
	from := n.view
	n.view = v
	n.lastGrid = v
	n.selectedID = ""
	return domain.Transition{From: from, To: v}, nil
}

func (n *Navigator) Reset() {
	n.view = domain.ViewListing
	n.lastGrid = domain.ViewListing
	n.selectedID = ""
}
