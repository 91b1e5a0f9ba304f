package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the sync server.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRoutes) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>organizer sync API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document for the snapshot and notes endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "organizer-sync", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Snapshot": {"type":"object","properties":{
        "folders":{"type":"array","items":{"type":"object","properties":{"id":{"type":"string"},"name":{"type":"string"},"createdAt":{"type":"string","format":"date-time"}}}},
        "documents":{"type":"object","additionalProperties":{"type":"array","items":{"type":"object","properties":{"id":{"type":"string"},"folderId":{"type":"string"},"title":{"type":"string"},"content":{"type":"string"},"createdAt":{"type":"string","format":"date-time"},"updatedAt":{"type":"string","format":"date-time"}}}}},
        "events":{"type":"array","items":{"type":"object","properties":{"id":{"type":"string"},"title":{"type":"string"},"date":{"type":"string","format":"date"},"time":{"type":"string"},"type":{"type":"string","enum":["deadline","exam","class","meeting"]},"description":{"type":"string"}}}}
      }},
      "Note": {"type":"object","properties":{"title":{"type":"string"},"content":{"type":"string"},"color":{"type":"string"}}}
    }
  },
  "paths": {
    "/api/save": {
      "post": {
        "summary": "Store the whole workspace snapshot",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Snapshot"}}}},
        "responses": { "200": { "description": "saved" }, "400": { "description": "malformed or inconsistent snapshot" } }
      }
    },
    "/api/load": {
      "get": { "summary": "Fetch the stored snapshot", "responses": { "200": { "description": "snapshot" }, "204": { "description": "nothing stored yet" } } }
    },
    "/api/documents": {
      "get": { "summary": "List documents across folders", "parameters": [{"name":"search","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "document summaries, newest first" } } }
    },
    "/api/events": {
      "get": { "summary": "List events", "parameters": [{"name":"month","in":"query","schema":{"type":"string","example":"2025-3"}},{"name":"day","in":"query","schema":{"type":"integer"}}], "responses": { "200": { "description": "events ordered by date and time" }, "400": { "description": "bad month or day" } } }
    },
    "/api/notes": {
      "get": { "summary": "List notes", "parameters": [{"name":"search","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "notes" } } },
      "post": { "summary": "Create a note", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/Note"}}}}, "responses": { "201": { "description": "created" }, "400": { "description": "title and content are required" } } }
    },
    "/api/notes/{id}": {
      "get": { "summary": "Fetch a note", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "note" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update a note", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a note", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
