// Package docs holds the generated swagger document for the LanHub API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": ["http"],
    "paths": {
        "/shopping_list": {
            "get": {
                "tags": ["Shopping"],
                "summary": "Get the Shopping List",
                "description": "Returns every item on the shared shopping list as a JSON array of strings, in insertion order.",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "The current shopping list",
                        "schema": {"type": "array", "items": {"type": "string"}}
                    }
                }
            }
        },
        "/add_item": {
            "post": {
                "tags": ["Shopping"],
                "summary": "Add a Shopping Item",
                "description": "Appends the given item to the end of the shopping list.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "item",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "name": {"type": "string", "example": "milk"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Item added"},
                    "400": {"description": "Malformed JSON or empty name"}
                }
            }
        },
        "/remove_item/{name}": {
            "delete": {
                "tags": ["Shopping"],
                "summary": "Remove a Shopping Item",
                "description": "Removes all entries exactly matching the given name.",
                "produces": ["text/plain"],
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Item removed"}
                }
            }
        },
        "/calendar": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get Calendar Events for a Month",
                "description": "Returns every event whose date falls in the given month and year.",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "month", "type": "integer", "required": true},
                    {"in": "query", "name": "year", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Events in that month"},
                    "400": {"description": "Missing or non-integer month/year"}
                }
            }
        },
        "/add_event": {
            "post": {
                "tags": ["Calendar"],
                "summary": "Add a Calendar Event",
                "description": "Stores a calendar event. The body must be a JSON object with a non-empty 'date' (YYYY-MM-DD) and 'title'; extra fields are preserved as-is.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "event",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "date": {"type": "string", "example": "2024-03-05"},
                                "title": {"type": "string", "example": "Tax deadline"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Event added"},
                    "400": {"description": "Malformed JSON or missing date/title"}
                }
            }
        },
        "/delete_event": {
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete Calendar Events",
                "description": "Removes every event whose date and title both equal the given values.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "target",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "date": {"type": "string"},
                                "title": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Event removed"},
                    "400": {"description": "Malformed JSON"}
                }
            }
        },
        "/files": {
            "get": {
                "tags": ["Files"],
                "summary": "List Uploaded Files",
                "description": "Returns name, size, extension and MIME type for every uploaded file.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Uploaded files, sorted by name"}
                }
            }
        },
        "/delete_file/{name}": {
            "delete": {
                "tags": ["Files"],
                "summary": "Delete an Uploaded File",
                "produces": ["text/plain"],
                "parameters": [
                    {"in": "path", "name": "name", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File deleted"},
                    "404": {"description": "No such file"}
                }
            }
        },
        "/bandwidth": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Bandwidth Usage",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Per-interface counters and rates"}}
            }
        },
        "/ping_latency": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Ping Latency",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Average round-trip time per host"}}
            }
        },
        "/network_processes": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Network Processes",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Connections joined with process names"}}
            }
        },
        "/scan": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Scan Local Network",
                "produces": ["application/json"],
                "responses": {"200": {"description": "ARP cache neighbours"}}
            }
        },
        "/logs": {
            "get": {
                "tags": ["Diagnostics"],
                "summary": "Request Log",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Log contents"},
                    "404": {"description": "Log file does not exist yet"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "LanHub API",
	Description:      "Local-network file sharing, shopping list, calendar and diagnostics server.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
