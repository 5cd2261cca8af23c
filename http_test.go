package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"inventar-backend/controllers"
	"inventar-backend/models"
	"inventar-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestApp создает тестовое приложение Fiber поверх общих сервисов
func createTestApp(ts *testServices) *fiber.App {
	app := fiber.New()

	// Создаем контроллеры
	boxController := controllers.NewBoxController(ts.inventory)
	itemController := controllers.NewItemController(ts.inventory)
	historyController := controllers.NewHistoryController(ts.audit)
	statsController := controllers.NewStatsController(ts.inventory)
	importController := controllers.NewImportController(ts.imports)
	settingsController := controllers.NewSettingsController(ts.settings)

	// Настраиваем маршруты
	routes.SetupBoxRoutes(app, boxController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupHistoryRoutes(app, historyController)
	routes.SetupStatsRoutes(app, statsController)
	routes.SetupImportRoutes(app, importController)
	routes.SetupSettingsRoutes(app, settingsController)

	return app
}

// decodeBody разбирает тело ответа в map
func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp).Decode(&body))
	return body
}

func TestBoxEndpoints(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)

	// Тест успешного создания ящика
	t.Run("Create box", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name":     "Toolbox A",
			"location": "Garage",
		})
		req := httptest.NewRequest("POST", "/api/boxes", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["error"])

		// Проверяем, что ящик создан в базе данных
		var box models.Box
		err = ts.db.Where("name = ?", "Toolbox A").First(&box).Error
		assert.NoError(t, err)
		assert.Equal(t, "Garage", box.Location)
	})

	// Тест пустого имени
	t.Run("Create box with empty name", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name": "   ",
		})
		req := httptest.NewRequest("POST", "/api/boxes", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	// Тест обновления несуществующего ящика
	t.Run("Update missing box", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name": "Renamed",
		})
		req := httptest.NewRequest("PUT", "/api/boxes/999", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	// Тест фильтрации по имени
	t.Run("Search boxes by name", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/boxes?name=toolbox", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		boxes := body["boxes"].([]interface{})
		assert.Len(t, boxes, 1)
	})

	// Тест удаления ящика с предметами
	t.Run("Delete box with items", func(t *testing.T) {
		box := createTestBox(ts, "Doomed", "")
		createTestItem(ts, "Hammer", box.ID, 1)
		createTestItem(ts, "Tape", box.ID, 2)

		req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/boxes/%d", box.ID), nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.EqualValues(t, 2, body["removed_items"])
	})
}

func TestItemEndpoints(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)
	box := createTestBox(ts, "Toolbox", "")

	// Тест успешного создания предмета
	t.Run("Create item", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name":     "Hammer",
			"box_id":   box.ID,
			"quantity": 3,
		})
		req := httptest.NewRequest("POST", "/api/items", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	// Тест неположительного количества
	t.Run("Create item with zero quantity", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name":     "Ghost",
			"box_id":   box.ID,
			"quantity": 0,
		})
		req := httptest.NewRequest("POST", "/api/items", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)

		assert.EqualValues(t, 1, countRows(ts.db, &models.Item{}))
	})

	// Тест создания предмета в несуществующем ящике
	t.Run("Create item in missing box", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"name":     "Orphan",
			"box_id":   999,
			"quantity": 1,
		})
		req := httptest.NewRequest("POST", "/api/items", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	// Тест переноса предмета в другой ящик
	t.Run("Move item", func(t *testing.T) {
		other := createTestBox(ts, "Shelf", "")
		item := createTestItem(ts, "Wrench", box.ID, 1)

		jsonData, _ := json.Marshal(map[string]interface{}{
			"box_id": other.ID,
		})
		req := httptest.NewRequest("PUT", fmt.Sprintf("/api/items/%d/move", item.ID), bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var moved models.Item
		require.NoError(t, ts.db.First(&moved, item.ID).Error)
		assert.Equal(t, other.ID, moved.BoxID)
	})

	// Тест фильтрации по ящику
	t.Run("Filter items by box", func(t *testing.T) {
		req := httptest.NewRequest("GET", fmt.Sprintf("/api/items?box_id=%d", box.ID), nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		items := body["items"].([]interface{})
		assert.Len(t, items, 1) // Hammer, Wrench переехал
	})

	// Тест некорректного box_id в запросе
	t.Run("Invalid box_id filter", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/items?box_id=abc", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestImportEndpoints(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)
	createTestBox(ts, "Toolbox A", "Garage")

	csvText := "Item Name,Box,Quantity\nScrewdriver,Toolbox A,5\nHammer,Nowhere,2\n"

	// Тест предпросмотра: отчет возвращается, база не меняется
	t.Run("Preview reports errors without writing", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/import/preview", strings.NewReader(csvText))
		req.Header.Set("Content-Type", "text/csv")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		preview := body["preview"].(map[string]interface{})
		assert.EqualValues(t, 1, preview["valid_rows"])
		assert.EqualValues(t, 1, preview["error_rows"])

		assert.EqualValues(t, 0, countRows(ts.db, &models.Item{}))
	})

	// Тест фиксации с ошибочной строкой
	t.Run("Commit rejected when rows have errors", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/import/commit", strings.NewReader(csvText))
		req.Header.Set("Content-Type", "text/csv")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 409, resp.StatusCode)

		assert.EqualValues(t, 0, countRows(ts.db, &models.Item{}))
	})

	// Тест успешной фиксации
	t.Run("Commit clean file", func(t *testing.T) {
		clean := "Item Name,Box,Quantity\nScrewdriver,Toolbox A,5\n"
		req := httptest.NewRequest("POST", "/api/import/commit", strings.NewReader(clean))
		req.Header.Set("Content-Type", "text/csv")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.EqualValues(t, 1, body["imported"])
		assert.EqualValues(t, 1, countRows(ts.db, &models.Item{}))
	})

	// Тест отсутствующих колонок
	t.Run("Preview missing columns", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/import/preview", strings.NewReader("Name,Quantity\nHammer,2\n"))
		req.Header.Set("Content-Type", "text/csv")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	// Тест пустого тела запроса
	t.Run("Preview empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/import/preview", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	// Тест выгрузки инвентаря
	t.Run("Export inventory", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/export/inventory", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		raw, err := io.ReadAll(resp.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(raw), "ID,Item Name,Box,Location,Quantity")
		assert.Contains(t, string(raw), "Screwdriver")
	})

	// Тест шаблона CSV
	t.Run("Import template", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/import/template", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(raw), "Sample Item,Toolbox A,1")
	})
}

func TestHistoryEndpoints(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)
	box := createTestBox(ts, "Toolbox", "")
	item := createTestItem(ts, "Hammer", box.ID, 1)
	_, err := ts.inventory.UpdateItem(item.ID, "Hammer", box.ID, 2)
	require.NoError(t, err)

	// Тест выборки журнала с фильтром по действию
	t.Run("Filter history by action", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/history?action=UPDATE", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		logs := body["logs"].([]interface{})
		assert.Len(t, logs, 1)
	})

	// Тест некорректной даты
	t.Run("Invalid from date", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/history?from=not-a-date", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	// Тест сводки по действиям
	t.Run("History stats", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/history/stats", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		counts := body["counts"].(map[string]interface{})
		assert.EqualValues(t, 2, counts["CREATE"])
		assert.EqualValues(t, 1, counts["UPDATE"])
	})
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)
	box := createTestBox(ts, "Toolbox", "")
	createTestItem(ts, "Hammer", box.ID, 2)
	createTestItem(ts, "Tape", box.ID, 3)

	req := httptest.NewRequest("GET", "/api/stats", nil)

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	stats := body["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_boxes"])
	assert.EqualValues(t, 2, stats["total_items"])
	assert.EqualValues(t, 5, stats["total_quantity"])
}

func TestSettingsEndpoints(t *testing.T) {
	ts := newTestServices()
	app := createTestApp(ts)

	// Тест значения по умолчанию
	t.Run("Get default value", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/settings/language?default=en", nil)

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "en", body["value"])
	})

	// Тест сохранения и чтения
	t.Run("Set and get", func(t *testing.T) {
		jsonData, _ := json.Marshal(map[string]interface{}{
			"value": "dark",
		})
		req := httptest.NewRequest("PUT", "/api/settings/theme", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		req = httptest.NewRequest("GET", "/api/settings/theme", nil)
		resp, err = app.Test(req)
		assert.NoError(t, err)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "dark", body["value"])
	})
}
