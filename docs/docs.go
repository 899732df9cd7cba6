// Package docs регистрирует описание API для swagger UI на /docs/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/products": {
            "get": {"tags": ["products"], "summary": "Каталог продуктов", "produces": ["application/json"], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Создать продукт", "consumes": ["application/json"], "produces": ["application/json"], "parameters": [{"in": "body", "name": "product", "required": true, "schema": {"$ref": "#/definitions/models.ProductInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/products/{id}": {
            "get": {"tags": ["products"], "summary": "Продукт по id", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["products"], "summary": "Частично изменить продукт", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/models.ProductPatch"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/topups": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["topups"], "summary": "Заявки на пополнение", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["topups"], "summary": "Подать заявку на пополнение", "parameters": [{"in": "body", "name": "topup", "required": true, "schema": {"$ref": "#/definitions/models.TopupInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/topups/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["topups"], "summary": "Заявка на пополнение по id", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/topups/{id}/approve": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["topups"], "summary": "Одобрить или отклонить заявку", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "decision", "required": true, "schema": {"$ref": "#/definitions/models.TopupDecision"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/subscriptions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Подписки вместе с продуктами", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Купить подписку", "parameters": [{"in": "body", "name": "purchase", "required": true, "schema": {"$ref": "#/definitions/models.PurchaseInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}, "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/subscriptions/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Удалить подписку", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/subscriptions/{id}/activate": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Сменить статус подписки", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "activation", "required": true, "schema": {"$ref": "#/definitions/models.ActivationInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/subscriptions/{id}/cancel": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Отменить подписку", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/subscriptions/{id}/dates": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["subscriptions"], "summary": "Изменить даты подписки", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "dates", "required": true, "schema": {"$ref": "#/definitions/models.DatesInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Текущий пользователь", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Все пользователи", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/users/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Удалить пользователя", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/users/{id}/role": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Сменить роль пользователя", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "role", "required": true, "schema": {"$ref": "#/definitions/models.RoleInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/users/{id}/balance": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Скорректировать баланс", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "adjustment", "required": true, "schema": {"$ref": "#/definitions/models.BalanceInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/users/{id}/ban": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Заблокировать или разблокировать пользователя", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"in": "body", "name": "ban", "required": true, "schema": {"$ref": "#/definitions/models.BanInput"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/leaderboard": {
            "get": {"tags": ["users"], "summary": "Рейтинг покупателей", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/activity-logs": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["activity-logs"], "summary": "Журнал действий администраторов", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/announcements": {
            "get": {"tags": ["announcements"], "summary": "Объявления", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["announcements"], "summary": "Опубликовать объявление", "parameters": [{"in": "body", "name": "announcement", "required": true, "schema": {"$ref": "#/definitions/models.AnnouncementInput"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/announcements/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["announcements"], "summary": "Удалить объявление", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/api/export/{type}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["export"], "summary": "CSV-выгрузка", "produces": ["text/csv"], "parameters": [{"type": "string", "name": "type", "in": "path", "required": true, "enum": ["users", "subscriptions", "topups"]}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/internal/identities": {
            "post": {"tags": ["identities"], "summary": "Вход пользователя через шлюз идентификации", "parameters": [{"type": "string", "name": "X-Provisioning-Key", "in": "header", "required": true}, {"in": "body", "name": "identity", "required": true, "schema": {"$ref": "#/definitions/models.Identity"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}}}
        },
        "/health": {
            "get": {"tags": ["health"], "summary": "Состояние сервиса", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}}}
        }
    },
    "definitions": {
        "response.Response": {"type": "object", "properties": {"status": {"type": "string"}, "error": {"type": "string"}, "data": {}}},
        "response.ErrorResponse": {"type": "object", "properties": {"status": {"type": "string", "example": "Error"}, "error": {"type": "string", "example": "invalid request body"}}},
        "models.ProductInput": {"type": "object", "required": ["name", "description", "price", "durationDays"], "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "integer"}, "durationDays": {"type": "integer"}, "isActive": {"type": "boolean"}}},
        "models.ProductPatch": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "integer"}, "durationDays": {"type": "integer"}, "isActive": {"type": "boolean"}}},
        "models.TopupInput": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "integer"}, "proofUrl": {"type": "string"}}},
        "models.TopupDecision": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["approved", "rejected"]}, "adminComment": {"type": "string"}}},
        "models.PurchaseInput": {"type": "object", "required": ["productId", "deviceId"], "properties": {"productId": {"type": "integer"}, "deviceId": {"type": "string"}}},
        "models.ActivationInput": {"type": "object", "required": ["status"], "properties": {"status": {"type": "string", "enum": ["active", "expired"]}, "adminComment": {"type": "string"}}},
        "models.DatesInput": {"type": "object", "properties": {"startDate": {"type": "string", "format": "date-time"}, "endDate": {"type": "string", "format": "date-time"}}},
        "models.RoleInput": {"type": "object", "required": ["role"], "properties": {"role": {"type": "string", "enum": ["customer", "admin"]}}},
        "models.BalanceInput": {"type": "object", "required": ["amount"], "properties": {"amount": {"type": "integer"}, "reason": {"type": "string"}}},
        "models.BanInput": {"type": "object", "required": ["banned"], "properties": {"banned": {"type": "boolean"}}},
        "models.AnnouncementInput": {"type": "object", "required": ["title", "body"], "properties": {"title": {"type": "string"}, "body": {"type": "string"}, "priority": {"type": "string", "enum": ["normal", "important", "urgent"]}}},
        "models.Identity": {"type": "object", "required": ["id", "username"], "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "displayName": {"type": "string"}, "email": {"type": "string"}, "avatarUrl": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Type \"Bearer\" followed by a space and JWT token.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo метаданные API, подставляемые в шаблон.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Subscription Wallet API",
	Description:      "Кошелёк пользователя, заявки на пополнение и покупка подписок",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
