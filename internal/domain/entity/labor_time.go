package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LaborTime duración de mano de obra en horas y minutos (forma "HH:MM").
type LaborTime struct {
	Hours   int
	Minutes int
}

// NewLaborTimeFromMinutes construye la duración desde minutos totales.
func NewLaborTimeFromMinutes(total int) LaborTime {
	return LaborTime{Hours: total / 60, Minutes: total % 60}
}

// ParseLaborTime interpreta "H:MM" o "HH:MM".
func ParseLaborTime(s string) (LaborTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return LaborTime{}, fmt.Errorf("labor_time: formato esperado HH:MM, recibido %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return LaborTime{}, fmt.Errorf("labor_time: horas inválidas: %w", err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return LaborTime{}, fmt.Errorf("labor_time: minutos inválidos: %w", err)
	}
	t := LaborTime{Hours: h, Minutes: m}
	if !t.Valid() {
		return LaborTime{}, fmt.Errorf("labor_time: fuera de rango %q", s)
	}
	return t, nil
}

// Valid horas no negativas y minutos entre 0 y 59.
func (t LaborTime) Valid() bool {
	return t.Hours >= 0 && t.Minutes >= 0 && t.Minutes < 60
}

// TotalMinutes duración total en minutos.
func (t LaborTime) TotalMinutes() int {
	return t.Hours*60 + t.Minutes
}

func (t LaborTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// MarshalJSON serializa como "HH:MM".
func (t LaborTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON acepta "HH:MM".
func (t *LaborTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("labor_time: %w", err)
	}
	parsed, err := ParseLaborTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
