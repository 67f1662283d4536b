package native

import (
	"fyne.io/fyne/v2"

	"github.com/tessera-ui/tessera/internal/render"
)

// SetMenu installs a native menu bar. Selections are delivered as
// MenuEvent through the unified queue. A nil menu clears the bar.
func (b *Backend) SetMenu(menu *render.Menu) {
	if menu == nil {
		fyne.Do(func() { b.win.SetMainMenu(nil) })
		return
	}

	groups := make([]*fyne.Menu, 0, len(menu.Groups))
	for _, group := range menu.Groups {
		items := make([]*fyne.MenuItem, 0, len(group.Items))
		for _, item := range group.Items {
			if item.Separator {
				items = append(items, fyne.NewMenuItemSeparator())
				continue
			}
			id := item.ID
			items = append(items, fyne.NewMenuItem(item.Label, func() {
				b.post(render.MenuEvent{ItemID: id})
			}))
		}
		groups = append(groups, fyne.NewMenu(group.Title, items...))
	}

	main := fyne.NewMainMenu(groups...)
	fyne.Do(func() { b.win.SetMainMenu(main) })
}
