package render

func init() {
	register(&Target{
		ID:          "kitty",
		Kind:        KindTerminal,
		Description: "kitty terminal colors",
		RelPath:     []string{".config", "kitty", "themey.conf"},
		Reload: &ReloadAction{
			Label:   "kitty",
			Command: []string{"pkill", "-USR1", "-x", "kitty"},
		},
		render: templateRenderer("kitty.conf.tmpl"),
	})

	register(&Target{
		ID:          "foot",
		Kind:        KindTerminal,
		Description: "foot terminal colors",
		RelPath:     []string{".config", "foot", "themey.ini"},
		render:      templateRenderer("foot.ini.tmpl"),
	})

	// alacritty watches its config and reloads on its own.
	register(&Target{
		ID:          "alacritty",
		Kind:        KindTerminal,
		Description: "alacritty terminal colors",
		RelPath:     []string{".config", "alacritty", "themey.toml"},
		render:      renderAlacritty,
	})

	register(&Target{
		ID:          "waybar",
		Kind:        KindStatusBar,
		Description: "waybar @define-color stylesheet",
		RelPath:     []string{".config", "waybar", "colors.css"},
		Reload: &ReloadAction{
			Label:   "waybar",
			Command: []string{"pkill", "-USR2", "-x", "waybar"},
		},
		render: templateRenderer("waybar.css.tmpl"),
	})

	register(&Target{
		ID:          "hyprland",
		Kind:        KindCompositor,
		Description: "Hyprland color variables and borders",
		RelPath:     []string{".config", "hypr", "themey.conf"},
		Reload: &ReloadAction{
			Label:   "Hyprland",
			Command: []string{"hyprctl", "reload"},
		},
		render: templateRenderer("hyprland.conf.tmpl"),
	})

	register(&Target{
		ID:          "rofi",
		Kind:        KindLauncher,
		Description: "rofi theme",
		RelPath:     []string{".config", "rofi", "themey.rasi"},
		render:      templateRenderer("rofi.rasi.tmpl"),
	})

	register(&Target{
		ID:          "dunst",
		Kind:        KindNotification,
		Description: "dunst urgency colors (drop-in)",
		RelPath:     []string{".config", "dunst", "dunstrc.d", "99-themey.conf"},
		Reload: &ReloadAction{
			Label: "dunst",
			DBus: &DBusCall{
				Dest:   "org.freedesktop.Notifications",
				Path:   "/org/freedesktop/Notifications",
				Method: "org.dunstproject.cmd0.ConfigReload",
				Args:   []any{[]string{}},
			},
			Command: []string{"dunstctl", "reload"},
		},
		render: templateRenderer("dunst.conf.tmpl"),
	})

	register(&Target{
		ID:          "gtk",
		Kind:        KindToolkit,
		Description: "GTK4/libadwaita named colors",
		RelPath:     []string{".config", "gtk-4.0", "colors.css"},
		render:      templateRenderer("gtk.css.tmpl"),
	})

	register(&Target{
		ID:          "vscode",
		Kind:        KindEditor,
		Description: "VS Code color theme",
		RelPath:     append(vscodeExtensionDir(), vscodeThemeFile...),
		render:      renderVSCode,
		extras: []companion{
			{RelPath: append(vscodeExtensionDir(), "package.json"), render: renderVSCodeManifest},
		},
	})

	register(&Target{
		ID:          "k9s",
		Kind:        KindTool,
		Description: "k9s skin",
		RelPath:     []string{".config", "k9s", "skins", "themey.yaml"},
		render:      renderK9s,
	})
}
