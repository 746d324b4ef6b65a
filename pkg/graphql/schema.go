// Package graphql exposes the graph over a read/write GraphQL schema: node
// and edge queries, graph statistics, transform discovery and an expand
// mutation.
package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/transform"
)

// GenerateSchema builds the GraphQL schema over the store and executor.
// A nil executor leaves the expand mutation rejecting every call.
func GenerateSchema(store *graph.Store, executor *expand.Executor) (graphql.Schema, error) {
	nodeType := createNodeType()
	edgeType := createEdgeType()
	statsType := createStatsType()
	transformType := createTransformType()
	expandResultType := createExpandResultType(nodeType, edgeType)

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					return store.Node(id)
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					nodes := store.Nodes()
					entityType, ok := p.Args["type"].(string)
					if !ok || entityType == "" {
						return nodes, nil
					}
					filtered := make([]*graph.Node, 0, len(nodes))
					for _, node := range nodes {
						if string(node.Type) == entityType {
							filtered = append(filtered, node)
						}
					}
					return filtered, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return store.Edges(), nil
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return store, nil
				},
			},
			"transforms": &graphql.Field{
				Type: graphql.NewList(transformType),
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					entityType, ok := p.Args["type"].(string)
					if !ok || entityType == "" {
						return transform.All(), nil
					}
					return transform.TransformsFor(graph.EntityType(entityType)), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createNode": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"type":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"value": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"label": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					entityType := graph.EntityType(p.Args["type"].(string))
					if !entityType.Valid() {
						return nil, fmt.Errorf("unknown entity type %q", entityType)
					}
					value := p.Args["value"].(string)
					label, _ := p.Args["label"].(string)
					if label == "" {
						label = value
					}
					node := graph.NewNode(entityType, value, label)
					if err := store.AddNode(node); err != nil {
						return nil, err
					}
					return node, nil
				},
			},
			"deleteNode": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					if err := store.RemoveNode(id); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"expand": &graphql.Field{
				Type: expandResultType,
				Args: graphql.FieldConfigArgument{
					"nodeId":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"transformId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if executor == nil {
						return nil, fmt.Errorf("expansion is not available")
					}
					nodeID, _ := p.Args["nodeId"].(string)
					transformID, _ := p.Args["transformId"].(string)

					source, err := store.Node(nodeID)
					if err != nil {
						return nil, err
					}
					result, err := executor.ExecuteTransform(p.Context, transformID, source)
					if err != nil {
						return nil, err
					}
					if err := store.Apply(result.Nodes, result.Edges); err != nil {
						return nil, err
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func createNodeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Node).ID, nil
				},
			},
			"type": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*graph.Node).Type), nil
				},
			},
			"value": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Node).Value, nil
				},
			},
			"label": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Node).Label, nil
				},
			},
			"x": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Node).Position.X, nil
				},
			},
			"y": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Node).Position.Y, nil
				},
			},
			"risk": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					node := p.Source.(*graph.Node)
					if node.Risk == nil {
						return nil, nil
					}
					return string(node.Risk.Level), nil
				},
			},
		},
	})
}

func createEdgeType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Edge).ID, nil
				},
			},
			"sourceId": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Edge).SourceID, nil
				},
			},
			"targetId": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Edge).TargetID, nil
				},
			},
			"label": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*graph.Edge).Label, nil
				},
			},
		},
	})
}

func createStatsType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Stats",
		Fields: graphql.Fields{
			"nodeCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					nodes, _ := p.Source.(*graph.Store).Counts()
					return nodes, nil
				},
			},
			"edgeCount": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					_, edges := p.Source.(*graph.Store).Counts()
					return edges, nil
				},
			},
		},
	})
}

func createTransformType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Transform",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*transform.Descriptor).ID, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*transform.Descriptor).Name, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*transform.Descriptor).Description, nil
				},
			},
		},
	})
}

func createExpandResultType(nodeType, edgeType *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "ExpandResult",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*expand.Result).Nodes, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*expand.Result).Edges, nil
				},
			},
		},
	})
}
