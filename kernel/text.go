package kernel

// TextColumns and TextRows describe the 80x25 geometry of VGA text mode 0x3.
// The console uses them as its default dimensions and kfmt sizes its early
// output buffer so a full screen of boot messages can be replayed.
const (
	TextColumns = 80
	TextRows    = 25
)
