// Package docs holds the Swagger 2.0 document served under /swagger. It is
// maintained by hand in the layout swag init produces from the handler
// annotations, so keep the two in step when a route changes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {
			"name": "API Support"
		},
		"license": {
			"name": "MIT",
			"url": "https://opensource.org/licenses/MIT"
		},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/articles": {
			"get": {
				"tags": [
					"articles"
				],
				"summary": "List articles",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Article"
							}
						}
					}
				},
				"parameters": [
					{
						"type": "boolean",
						"description": "Include comments",
						"name": "comments",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page size",
						"name": "limit",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page offset",
						"name": "offset",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"articles"
				],
				"summary": "Create article",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/models.Article"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/server.articleRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/articles/comments": {
			"get": {
				"tags": [
					"comments"
				],
				"summary": "List every comment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Comment"
							}
						}
					}
				}
			}
		},
		"/articles/{articleId}": {
			"get": {
				"tags": [
					"articles"
				],
				"summary": "Get article",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Article"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					},
					{
						"type": "boolean",
						"description": "Include comments",
						"name": "comments",
						"in": "query",
						"required": false
					}
				]
			},
			"put": {
				"tags": [
					"articles"
				],
				"summary": "Update article",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Article"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/server.articleRequest"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"articles"
				],
				"summary": "Delete article",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Article"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/articles/{articleId}/comments": {
			"get": {
				"tags": [
					"comments"
				],
				"summary": "List comments of an article",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Comment"
							}
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					}
				]
			},
			"post": {
				"tags": [
					"comments"
				],
				"summary": "Comment on an article",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/models.Comment"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"type": "object",
							"properties": {
								"text": {
									"type": "string"
								},
								"userId": {
									"type": "integer"
								}
							}
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/articles/{articleId}/comments/{commentId}": {
			"delete": {
				"tags": [
					"comments"
				],
				"summary": "Delete a comment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Comment"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Article ID",
						"name": "articleId",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"description": "Comment ID",
						"name": "commentId",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/categories": {
			"get": {
				"tags": [
					"categories"
				],
				"summary": "List categories",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.CategoryWithCount"
							}
						}
					}
				},
				"parameters": [
					{
						"type": "boolean",
						"description": "Include article counts",
						"name": "count",
						"in": "query",
						"required": false
					}
				]
			},
			"post": {
				"tags": [
					"categories"
				],
				"summary": "Create category",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/models.Category"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/server.categoryRequest"
						}
					}
				]
			}
		},
		"/categories/{categoryId}": {
			"get": {
				"tags": [
					"categories"
				],
				"summary": "One page of a category's articles",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.CategoryArticles"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Category ID",
						"name": "categoryId",
						"in": "path",
						"required": true
					},
					{
						"type": "integer",
						"description": "Page size",
						"name": "limit",
						"in": "query",
						"required": false
					},
					{
						"type": "integer",
						"description": "Page offset",
						"name": "offset",
						"in": "query",
						"required": false
					}
				]
			},
			"put": {
				"tags": [
					"categories"
				],
				"summary": "Rename category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Category"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "integer",
						"description": "Category ID",
						"name": "categoryId",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"$ref": "#/definitions/server.categoryRequest"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"categories"
				],
				"summary": "Delete category",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.Category"
						}
					},
					"403": {
						"description": "Forbidden",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "Category ID",
						"name": "categoryId",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/search": {
			"get": {
				"tags": [
					"search"
				],
				"summary": "Search articles by title",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/models.Article"
							}
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Title substring",
						"name": "query",
						"in": "query",
						"required": true
					}
				]
			}
		},
		"/home": {
			"get": {
				"tags": [
					"home"
				],
				"summary": "Home page blocks",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/models.HomeFeed"
						}
					}
				}
			}
		},
		"/user": {
			"post": {
				"tags": [
					"user"
				],
				"summary": "Register",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/models.User"
						}
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"type": "object",
							"properties": {
								"name": {
									"type": "string"
								},
								"email": {
									"type": "string"
								},
								"password": {
									"type": "string"
								},
								"passwordRepeated": {
									"type": "string"
								},
								"avatar": {
									"type": "string"
								}
							}
						}
					}
				]
			}
		},
		"/user/auth": {
			"post": {
				"tags": [
					"user"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/server.AuthResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/models.ErrorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "request",
						"required": true,
						"schema": {
							"type": "object",
							"properties": {
								"email": {
									"type": "string"
								},
								"password": {
									"type": "string"
								}
							}
						}
					}
				]
			}
		},
		"/ws": {
			"get": {
				"tags": [
					"realtime"
				],
				"summary": "Realtime events",
				"description": "Receives comment:create events as JSON text frames.",
				"responses": {}
			}
		}
	},
	"definitions": {
		"models.Category": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				}
			}
		},
		"models.CategoryWithCount": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				}
			}
		},
		"models.User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"name": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"avatar": {
					"type": "string"
				},
				"isOwner": {
					"type": "boolean"
				}
			}
		},
		"models.Comment": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"text": {
					"type": "string"
				},
				"userId": {
					"type": "integer"
				},
				"user": {
					"$ref": "#/definitions/models.User"
				},
				"articleId": {
					"type": "integer"
				},
				"article": {
					"$ref": "#/definitions/models.Article"
				},
				"createdAt": {
					"type": "string"
				}
			}
		},
		"models.Article": {
			"type": "object",
			"properties": {
				"id": {
					"type": "integer"
				},
				"title": {
					"type": "string"
				},
				"announce": {
					"type": "string"
				},
				"fullText": {
					"type": "string"
				},
				"photo": {
					"type": "string"
				},
				"createDate": {
					"type": "string"
				},
				"userId": {
					"type": "integer"
				},
				"user": {
					"$ref": "#/definitions/models.User"
				},
				"categories": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Category"
					}
				},
				"comments": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Comment"
					}
				}
			}
		},
		"models.CategoryArticles": {
			"type": "object",
			"properties": {
				"category": {
					"$ref": "#/definitions/models.Category"
				},
				"count": {
					"type": "integer"
				},
				"articlesByCategory": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Article"
					}
				}
			}
		},
		"models.HomeFeed": {
			"type": "object",
			"properties": {
				"bestCommentedArticles": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Article"
					}
				},
				"lastComments": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.Comment"
					}
				}
			}
		},
		"models.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"messages": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"server.articleRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"announce": {
					"type": "string"
				},
				"fullText": {
					"type": "string"
				},
				"photo": {
					"type": "string"
				},
				"categories": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"userId": {
					"type": "integer"
				}
			}
		},
		"server.categoryRequest": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				}
			}
		},
		"server.AuthResponse": {
			"type": "object",
			"properties": {
				"user": {
					"$ref": "#/definitions/models.User"
				},
				"token": {
					"type": "string"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "Type \"Bearer\" followed by a space and JWT token.",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Typoteka API",
	Description:      "Publishing and commenting API with articles, categories, comments and users",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
