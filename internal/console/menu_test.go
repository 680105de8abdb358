package console_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskManager/internal/console"
	"taskManager/internal/models/task"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/service"
	"taskManager/internal/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *service.TaskService
	storage *inmemory.TaskStorage
	path    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storage := inmemory.NewTaskStorage()
	svc := service.NewTaskService(storage, service.WithClock(func() time.Time {
		return time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	}))
	return &fixture{
		svc:     svc,
		storage: storage,
		path:    filepath.Join(t.TempDir(), "tasks.json"),
	}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")

	menu := console.NewMenu(f.svc, transfer.New(f.svc, f.path), service.DefaultUpcomingDays, in, &out)
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func TestMenu_ExitOption(t *testing.T) {
	out := newFixture(t).run(t, "6")

	assert.Contains(t, out, "Menú del Gestor de Tareas")
	assert.Contains(t, out, "3. Ver Tareas Próximas (Próximos 3 Días)")
	assert.Contains(t, out, "¡Adiós!")
}

func TestMenu_EOFExits(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer

	menu := console.NewMenu(f.svc, transfer.New(f.svc, f.path), 3, strings.NewReader(""), &out)
	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "¡Adiós!")
}

func TestMenu_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	menu := console.NewMenu(f.svc, transfer.New(f.svc, f.path), 3, strings.NewReader("6\n"), &bytes.Buffer{})
	assert.ErrorIs(t, menu.Run(ctx), context.Canceled)
}

func TestMenu_InvalidOption(t *testing.T) {
	out := newFixture(t).run(t, "9", "6")
	assert.Contains(t, out, "Opción inválida")
}

func TestMenu_AddAndList(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		"1", "Pay rent", "", "", "2025-01-10",
		"1", "Walk dog", "daily", "done", "2025-01-10",
		"1", "Bad date", "", "pendiente", "2024-02-30",
		"2",
		"6",
	)

	assert.Contains(t, out, "Tarea 'Pay rent' insertada exitosamente con ID: 1")
	assert.Contains(t, out, "Error al crear la tarea")
	assert.Contains(t, out, "ID: 1\n  Título: Pay rent\n  Descripción: \n  Estado: pendiente\n  Fecha de Vencimiento: 2025-01-10")
	assert.NotContains(t, out, "Walk dog\n")

	rows := f.svc.ListAll(context.Background())
	require.Len(t, rows, 1)
	assert.Equal(t, task.StatusPending, rows[0].Status)
}

func TestMenu_ListEmpty(t *testing.T) {
	out := newFixture(t).run(t, "2", "3", "6")

	assert.Contains(t, out, "No se encontraron tareas en la base de datos.")
	assert.Contains(t, out, "No se encontraron tareas próximas para los siguientes 3 días.")
}

func TestMenu_Upcoming(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		"1", "Pay rent", "", "pendiente", "2025-01-10",
		"1", "Far away", "", "pendiente", "2025-01-20",
		"3",
		"6",
	)

	upcoming := out[strings.LastIndex(out, "--- Tareas Próximas"):]
	assert.Contains(t, upcoming, "Pay rent")
	assert.NotContains(t, upcoming, "Far away")
}

func TestMenu_ExportImport(t *testing.T) {
	f := newFixture(t)
	out := f.run(t,
		"4",
		"1", "Pay rent", "", "", "2025-01-10",
		"4",
		"5",
		"6",
	)

	assert.Contains(t, out, "No se encontraron tareas en la base de datos para exportar.")
	assert.Contains(t, out, "Todas las 1 tareas se exportaron exitosamente")
	assert.Contains(t, out, "Se importaron 1 de 1 tareas exitosamente.")
	assert.Len(t, f.svc.ListAll(context.Background()), 2)
}

func TestMenu_ImportErrors(t *testing.T) {
	f := newFixture(t)
	out := f.run(t, "5", "6")
	assert.Contains(t, out, "no fue encontrado")

	require.NoError(t, os.WriteFile(f.path, []byte("{oops"), 0o600))
	out = f.run(t, "5", "6")
	assert.Contains(t, out, "Error al decodificar JSON")

	require.NoError(t, os.WriteFile(f.path, []byte(`[{"title":"x","description":"","status":"done","due_date":"2025-01-10"}]`), 0o600))
	out = f.run(t, "5", "6")
	assert.Contains(t, out, "Saltando datos de tarea inválidos")
	assert.Contains(t, out, "Se importaron 0 de 1 tareas exitosamente.")
}

func TestMenu_ConnectionLost(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.storage.Close())

	out := f.run(t, "2", "1", "6")
	assert.Equal(t, 2, strings.Count(out, "Advertencia: No hay una conexión activa"))
	assert.NotContains(t, out, "Añadir Nueva Tarea ---")
}
