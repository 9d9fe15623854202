package web

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/repocard/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/repocard/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/domain/model"
)

// CardFragment returns the card component for view, with icons under iconBase.
func CardFragment(view model.CardView, iconBase string) templ.Component {
	return templates.Card(toCardViewModel(view, iconBase))
}

// toCardViewModel converts a rendered CardView to a CardViewModel. Icon URLs are
// resolved against iconBase as <iconBase>/<iconKey>.svg.
func toCardViewModel(view model.CardView, iconBase string) vm.CardViewModel {
	card := vm.CardViewModel{
		State:   string(view.State),
		Message: view.Message,
		Stats:   make([]vm.StatViewModel, 0, len(view.Stats)),
	}

	if view.State != model.RenderReady {
		return card
	}

	card.AvatarURL = view.Header.AvatarURL
	card.AvatarAlt = view.Header.AvatarAlt
	card.DisplayName = view.Header.DisplayName
	card.LinkURL = view.Header.LinkURL
	card.Owner = view.Owner
	card.DescriptionHTML = RenderDescription(view.Description)

	for _, s := range view.Stats {
		card.Stats = append(card.Stats, vm.StatViewModel{
			IconURL: iconBase + "/" + s.IconKey + ".svg",
			Count:   s.Count,
			Label:   s.Label,
		})
	}

	return card
}

// toEditorViewModel converts an editor session snapshot into the page model.
func toEditorViewModel(blockID string, snap application.EditorSnapshot, csrf, iconBase string) vm.EditorViewModel {
	toggles := make([]vm.ToggleViewModel, 0, len(model.DisplayToggles))
	for _, t := range model.DisplayToggles {
		toggles = append(toggles, vm.ToggleViewModel{
			Name:    t.Name,
			Label:   t.Label,
			Checked: t.Get(snap.Attributes.Display),
		})
	}

	return vm.EditorViewModel{
		BlockID:       blockID,
		RepoURL:       snap.Attributes.RepoURL,
		InputDisabled: snap.InputDisabled,
		CSRFToken:     csrf,
		PreviewURL:    previewPath(blockID),
		Toggles:       toggles,
		Card:          toCardViewModel(snap.Card, iconBase),
	}
}

func previewPath(blockID string) string {
	return fmt.Sprintf("/app/blocks/%s/preview", url.PathEscape(blockID))
}
