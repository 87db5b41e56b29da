package coursemap

// Attributes is a flat, serialisable view of the course geometry.
type Attributes struct {
	CenterLatDeg  float64 `json:"v_cntr_deg"`
	CenterLongDeg float64 `json:"h_cntr_deg"`
	North         float64 `json:"north"`
	South         float64 `json:"south"`
	East          float64 `json:"east"`
	West          float64 `json:"west"`
	Top           float64 `json:"top"`
	Bottom        float64 `json:"bottom"`
	VCenter       float64 `json:"v_cntr"`
	HCenter       float64 `json:"h_cntr"`
	Span          float64 `json:"vh_span"`
	Rcv           float64 `json:"Rcv"`
	Cv            float64 `json:"Cv"`
	Ch            float64 `json:"Ch"`
	Start         float64 `json:"start"`
	Fin           float64 `json:"fin"`

	Samples        int     `json:"samples"`
	MarkerInterval float64 `json:"marker_interval"`
	FarthestIndex  int     `json:"farthest_index"`
	FarthestKm     float64 `json:"farthest_km"`
}

func (c *Course) Attributes() Attributes {
	l := c.Layout
	return Attributes{
		CenterLatDeg:   l.Frame.CenterLat,
		CenterLongDeg:  l.Frame.CenterLong,
		North:          l.Box.North,
		South:          l.Box.South,
		East:           l.Box.East,
		West:           l.Box.West,
		Top:            l.Box.Top,
		Bottom:         l.Box.Bottom,
		VCenter:        l.Box.VCenter,
		HCenter:        l.Box.HCenter,
		Span:           l.Box.Span,
		Rcv:            l.Frame.Rcv,
		Cv:             l.Frame.Cv,
		Ch:             l.Frame.Ch,
		Start:          l.Start,
		Fin:            l.Fin,
		Samples:        c.Len(),
		MarkerInterval: c.MarkerInterval,
		FarthestIndex:  c.Farthest.Index,
		FarthestKm:     c.Farthest.GreatCircleKm,
	}
}
