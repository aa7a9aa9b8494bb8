package control

// Canonical operation names accepted by drivers. Action plans reference
// operations by these strings; drivers may support additional names.
const (
	// OpClick performs a mouse click on the selected control. Args:
	// "button" (left/right, default left), "double" (bool).
	OpClick = "click_input"

	// OpSetText replaces the text of an editable control. Args: "text".
	OpSetText = "set_edit_text"

	// OpKeyboard sends keystrokes to the selected control or, with an empty
	// control selection, to the window. Args: "keys".
	OpKeyboard = "keyboard_input"

	// OpWheel scrolls the mouse wheel over the control. Args: "dist" (signed
	// wheel detents).
	OpWheel = "wheel_mouse_input"

	// OpTexts reads the text content of the selected control.
	OpTexts = "texts"

	// OpSummary asks for no interaction; the observation itself is the
	// result. Args: "text" carries the summary produced by the planner.
	OpSummary = "summary"

	// OpWait pauses before the next capture, letting slow UIs settle. Args:
	// "seconds".
	OpWait = "wait"
)
