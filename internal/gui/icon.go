package gui

import "fyne.io/fyne/v2"

// Speech bubble with a waveform
var iconSVG = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">
<rect x="16" y="24" width="224" height="168" rx="32" fill="#3f51b5"/>
<path d="M64 192 L64 236 L112 192 Z" fill="#3f51b5"/>
<g stroke="#ffcc00" stroke-width="14" stroke-linecap="round">
<line x1="68" y1="108" x2="68" y2="108"/>
<line x1="98" y1="84" x2="98" y2="132"/>
<line x1="128" y1="60" x2="128" y2="156"/>
<line x1="158" y1="84" x2="158" y2="132"/>
<line x1="188" y1="108" x2="188" y2="108"/>
</g>
</svg>`)

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	return fyne.NewStaticResource("lingoflow.svg", iconSVG)
}
