package debugui

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/screenspace/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Mask           ecs.ComponentMask
	Types          []reflect.Type
	ComponentTypes []string
}

var vec3Type = reflect.TypeFor[[3]float32]()

type EntityBrowserCache struct {
	entities      []EntityInfo
	lastEntities  int
	lastArchetype int
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache:              &EntityBrowserCache{},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// CollectEntities lists every entity in storage ordered by id.
func CollectEntities(storage *ecs.Storage) []EntityInfo {
	entities := make([]EntityInfo, 0, storage.Len())

	for _, archetype := range storage.Archetypes() {
		types := archetype.Types()
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}

		for entityId := range archetype.Iter() {
			entities = append(entities, EntityInfo{
				ID:             entityId,
				Mask:           archetype.Mask(),
				Types:          types,
				ComponentTypes: names,
			})
		}
	}

	slices.SortFunc(entities, func(a, b EntityInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entities
}

// FilterEntities returns the entities whose id or component type names
// contain text, ignoring case.
func FilterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if strings.Contains(idStr, filterLower) || strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}
	return filtered
}

// Render draws the entity table and, below it, the components of the
// selected entity. Numeric, boolean and vector fields are editable.
func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := storage.CollectStats()
	if eb.cache.lastEntities != stats.TotalEntityCount || eb.cache.lastArchetype != stats.ArchetypeCount {
		eb.cache.entities = CollectEntities(storage)
		eb.cache.lastEntities = stats.TotalEntityCount
		eb.cache.lastArchetype = stats.ArchetypeCount
	}

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := FilterEntities(eb.cache.entities, eb.filterText)
	totalPages := max((len(filteredEntities)+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage, 1)
	eb.currentPage = min(eb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 200), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Mask")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", uint64(entity.Mask)))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if totalPages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.Separator()
	eb.renderSelected(storage)

	imgui.End()
}

func (eb *EntityBrowserComponent) renderSelected(storage *ecs.Storage) {
	if !eb.selectedEntityId.Valid() {
		imgui.Text("No entity selected")
		return
	}
	if !storage.Alive(eb.selectedEntityId) {
		imgui.Text(fmt.Sprintf("Entity %d no longer exists", eb.selectedEntityId))
		return
	}

	for _, info := range eb.cache.entities {
		if info.ID != eb.selectedEntityId {
			continue
		}
		for _, compType := range info.Types {
			component := storage.GetComponent(info.ID, compType)
			if component == nil {
				continue
			}
			if imgui.TreeNodeStr(compType.String()) {
				val := reflect.ValueOf(component).Elem()
				for _, field := range globalReflectionCache.GetFields(compType) {
					renderField(field.Name, val.Field(field.Index))
				}
				imgui.TreePop()
			}
		}
		return
	}
}

// renderField draws one field. val is addressable, so edits write straight
// into the component.
func renderField(name string, val reflect.Value) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		if imgui.InputInt(name, &v) {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		imgui.Text(fmt.Sprintf("%s: %d", name, val.Uint()))

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		if imgui.InputFloat(name, &v) {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			val.SetBool(v)
		}

	case reflect.Array:
		if val.Len() == 3 && val.Type().Elem().Kind() == reflect.Float32 {
			v := val.Convert(vec3Type).Interface().([3]float32)
			if imgui.InputFloat3(name, &v) {
				val.Set(reflect.ValueOf(v).Convert(val.Type()))
			}
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nested := range globalReflectionCache.GetFields(val.Type()) {
				renderField(nested.Name, val.Field(nested.Index))
			}
			imgui.TreePop()
		}

	case reflect.Pointer:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		renderField(name, val.Elem())

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func (eb *EntityBrowserComponent) GetSelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}
